package entity

// Draft is an in-progress, not yet persisted copy of an entity's fields.
type Draft struct {
	Fields Fields
	Errors map[string]string
	// Editing is set when the draft is bound to an existing entity.
	Editing   bool
	EditingID ID
}

// NewDraft returns an empty create-mode draft.
func NewDraft(s Schema) Draft {
	return Draft{Fields: s.Blank(), Errors: map[string]string{}}
}

// EditDraft returns a draft hydrated from e and bound to its id.
func EditDraft(s Schema, e Entity) Draft {
	return Draft{
		Fields:    s.Hydrate(e),
		Errors:    map[string]string{},
		Editing:   true,
		EditingID: e.ID,
	}
}

func (d Draft) Clone() Draft {
	errs := make(map[string]string, len(d.Errors))
	for k, v := range d.Errors {
		errs[k] = v
	}
	return Draft{
		Fields:    d.Fields.Clone(),
		Errors:    errs,
		Editing:   d.Editing,
		EditingID: d.EditingID,
	}
}

// HasErrors reports whether any field carries a validation message.
func (d Draft) HasErrors() bool {
	for _, msg := range d.Errors {
		if msg != "" {
			return true
		}
	}
	return false
}
