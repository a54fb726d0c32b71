package gpu

import (
	"fmt"
	"strings"

	"github.com/gogpu/overlayfx"
)

// classifyResourceErr wraps a hal error in the matching sentinel:
// device-lost conditions demand full resource recreation and must not
// be confused with a recoverable per-frame allocation failure.
func classifyResourceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "device lost") || strings.Contains(msg, "device removed") {
		return fmt.Errorf("%w: %s: %v", overlayfx.ErrDeviceLost, op, err)
	}
	return fmt.Errorf("%w: %s: %v", overlayfx.ErrResourceAllocation, op, err)
}
