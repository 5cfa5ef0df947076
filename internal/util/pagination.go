package util

// Calculate normalizes page/size query values into an offset and limit
func Calculate(page, size int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	offset = (page - 1) * size
	return offset, size
}
