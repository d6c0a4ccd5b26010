package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ReadIntFromFile reads a file expected to contain a single integer value,
// like the sysfs attribute files exposed by thermal and PWM drivers.
func ReadIntFromFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return -1, err
	}
	text := strings.TrimSpace(string(data))
	if len(text) <= 0 {
		return -1, fmt.Errorf("file is empty: %s", path)
	}
	return strconv.Atoi(text)
}
