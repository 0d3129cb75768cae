package approval

import (
	"fmt"
	"regexp"
	"time"
)

// Override references look like OVR-202508-0042: the action year and month
// followed by a tenant-scoped sequence.
var overrideReferencePattern = regexp.MustCompile(`^OVR-[0-9]{6}-[0-9]{4}$`)

func ValidOverrideReference(ref string) bool {
	return overrideReferencePattern.MatchString(ref)
}

func formatOverrideReference(at time.Time, sequence int64) string {
	return fmt.Sprintf("OVR-%s-%04d", at.Format("200601"), sequence%10000)
}
