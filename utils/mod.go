package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// ParseName looks s up in a table of enum names indexed by value.
func ParseName[E ~int](names []string, s string) (E, bool) {
	i := FindIndex(names, s)
	if i < 0 {
		return 0, false
	}
	return E(i), true
}
