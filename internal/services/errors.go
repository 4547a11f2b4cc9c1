package services

import "errors"

// Sentinel errors for service-level failures. Handlers translate these into
// structured API error responses.
var (
	ErrInvalidFileType  = errors.New("unsupported file type")
	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrEmptyFile        = errors.New("empty file")
	ErrWorkbookNoSheet  = errors.New("workbook has no sheets")
	ErrAdviceDisabled   = errors.New("advice service is disabled")
	ErrAdviceEmptyReply = errors.New("advice model returned no content")
)
