package std

import "reflect"

type Equatable[T any] interface {
	Equal(other T) bool
}

// Equal compares two runtime values, preferring their own Equal method.
func Equal[T any](v1, v2 T) bool {
	if e, ok := any(v1).(Equatable[T]); ok {
		return e.Equal(v2)
	}

	val1 := reflect.ValueOf(v1)
	val2 := reflect.ValueOf(v2)

	// Values stored as any carry their Equal method on the dynamic type.
	if val1.IsValid() && val2.IsValid() {
		equalMeth := val1.MethodByName("Equal")
		if equalMeth.IsValid() && equalMeth.Type().NumIn() == 1 && equalMeth.Type().NumOut() == 1 && equalMeth.Type().Out(0).Kind() == reflect.Bool {
			if val2.Type().AssignableTo(equalMeth.Type().In(0)) {
				return equalMeth.Call([]reflect.Value{val2})[0].Bool()
			}
			return false
		}
	}
	return reflect.DeepEqual(v1, v2)
}
