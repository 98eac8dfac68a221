package driver

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// maxLabelLen is the provider hard limit on instance labels.
const maxLabelLen = 32

// generateLabelAndHostname derives the instance label and target hostname.
// Evaluated once per create.
//
// An explicitly configured label becomes the hostname as-is; the label itself
// is rewritten to kitchen-<raw>-<instance-name>-<unix-ts>. Without a label
// the hostname defaults to the instance name and the label is composed from
// a CI job token instead.
func (d *Driver) generateLabelAndHostname() {
	now := d.now().Unix()

	if d.cfg.Label != "" {
		raw := d.cfg.Label
		d.cfg.Hostname = raw
		d.cfg.Label = fmt.Sprintf("kitchen-%s-%s-%d", raw, d.cfg.InstanceName, now)
	} else {
		d.cfg.Hostname = d.cfg.InstanceName
		d.cfg.Label = fmt.Sprintf("kitchen-%s-%s-%d", jobToken(), d.cfg.InstanceName, now)
	}

	d.cfg.Label = clampLabel(sanitizeLabel(d.cfg.Label))
	d.log.Info("instance label generated", "label", d.cfg.Label, "hostname", d.cfg.Hostname)
}

// jobToken picks a token identifying the CI job: JOB_NAME, then GITHUB_JOB,
// then the working directory base name, then a literal fallback.
func jobToken() string {
	if v := os.Getenv("JOB_NAME"); v != "" {
		return v
	}
	if v := os.Getenv("GITHUB_JOB"); v != "" {
		return v
	}
	if wd, err := os.Getwd(); err == nil && wd != "" {
		return filepath.Base(wd)
	}
	return "job"
}

func sanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, " ", "_")
	return strings.ReplaceAll(label, "/", "_")
}

// clampLabel enforces the provider limit: labels at or over the limit are
// truncated to 30 characters plus a random 2-digit suffix. Best-effort
// uniqueness, collisions accepted.
func clampLabel(label string) string {
	if len(label) < maxLabelLen {
		return label
	}
	return fmt.Sprintf("%s%02d", label[:maxLabelLen-2], rand.IntN(100))
}

// now is stubbed in tests.
var defaultNow = time.Now
