package upload

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSessionID returns a timestamp-derived identifier generated once per
// form instance. All files uploaded during that instance share the id, so
// they land under one storage path.
func NewSessionID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + suffix
}
