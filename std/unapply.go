package std

// Unapply matches v against the constructor name and returns its fields.
// It covers the constructors of the std values.
func Unapply(v any, constructor string) ([]any, bool) {
	switch constructor {
	case "Some":
		if o, ok := v.(Option[any]); ok && o.Defined {
			return []any{o.Value}, true
		}
	case "None":
		if o, ok := v.(Option[any]); ok && !o.Defined {
			return nil, true
		}
	case "Left":
		if e, ok := v.(Either[any, any]); ok && !e.IsRight {
			return []any{e.LeftValue}, true
		}
	case "Right":
		if e, ok := v.(Either[any, any]); ok && e.IsRight {
			return []any{e.RightValue}, true
		}
	case "Nil":
		if l, ok := v.(List[any]); ok && l.IsEmpty() {
			return nil, true
		}
	case "Unit":
		if _, ok := v.(Unit); ok {
			return nil, true
		}
	}
	return nil, false
}
