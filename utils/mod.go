package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

func Contains[T comparable](slice []T, item T) bool {
	return FindIndex(slice, item) >= 0
}

// Remove returns a copy of slice without any occurrence of item.
func Remove[T comparable](slice []T, item T) []T {
	kept := make([]T, 0, len(slice))
	for _, v := range slice {
		if v != item {
			kept = append(kept, v)
		}
	}
	return kept
}
