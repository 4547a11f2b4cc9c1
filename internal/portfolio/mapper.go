package portfolio

// mappedTable is a RawTable rewritten to canonical fields: only recognized
// columns survive, renamed per the broker template.
type mappedTable struct {
	fields []Field
	rows   []map[Field]string
}

func (t *mappedTable) hasColumn(f Field) bool {
	for _, field := range t.fields {
		if field == f {
			return true
		}
	}
	return false
}

// mapColumns rewrites the table's brokerage-specific headers to canonical
// fields. Unmapped input columns are dropped on purpose: unknown extras carry
// no processing meaning. If a template maps two headers to the same field,
// the later mapping (template order) overwrites the earlier one.
func mapColumns(raw *RawTable, tpl BrokerTemplate) *mappedTable {
	present := make(map[string]struct{}, len(raw.Headers))
	for _, h := range raw.Headers {
		present[h] = struct{}{}
	}

	// source header per canonical field, later template entries winning
	source := make(map[Field]string)
	var fields []Field
	for _, m := range tpl.Mappings {
		if _, ok := present[m.Header]; !ok {
			continue
		}
		if _, seen := source[m.Field]; !seen {
			fields = append(fields, m.Field)
		}
		source[m.Field] = m.Header
	}

	mapped := &mappedTable{fields: fields}
	for _, rawRow := range raw.Rows {
		row := make(map[Field]string, len(fields))
		for _, f := range fields {
			row[f] = rawRow[source[f]]
		}
		mapped.rows = append(mapped.rows, row)
	}

	return mapped
}

// validateRequired checks that every required canonical field survived the
// mapping, reporting all missing fields at once. This is a hard stop; no
// later stage runs on an incomplete schema.
func validateRequired(t *mappedTable) error {
	var missing []Field
	for _, f := range requiredFields {
		if !t.hasColumn(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &MissingRequiredFieldError{Fields: missing}
	}
	return nil
}
