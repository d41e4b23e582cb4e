package progress

import "fmt"

var sizeSuffixes = []string{"B", "KB", "MB", "GB", "TB"}

// ReadableSize 把字节数格式化为 "1.50KB" 这样的形式, 最大单位为 TB
func ReadableSize(size int64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	value := float64(size)
	idx := 0
	for value >= 1024 && idx < len(sizeSuffixes)-1 {
		idx++
		value /= 1024
	}
	return fmt.Sprintf("%.*f%s", precision, value, sizeSuffixes[idx])
}
