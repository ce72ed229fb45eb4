// Package aws detects whether the host is an AWS EC2 instance and
// recommends NCCL/EFA environment settings for distributed training
// jobs on AWS clusters.
package aws

import (
	"os"
	"path/filepath"
	"strings"
)

// dmiPath points at the SMBIOS export; EC2 instances identify
// themselves through the system vendor and product fields there.
// Overridable in tests.
var dmiPath = "/sys/class/dmi/id"

// Detector answers cloud-provider questions for one invocation.
type Detector struct{}

// NewDetector creates an AWS detector.
func NewDetector() *Detector {
	return &Detector{}
}

// IsAWS reports whether the host looks like an EC2 instance. Detection
// is best effort: unreadable DMI files mean "not AWS", never an error.
func (d *Detector) IsAWS() bool {
	for _, file := range []string{"sys_vendor", "product_name", "bios_version"} {
		data, err := os.ReadFile(filepath.Join(dmiPath, file))
		if err != nil {
			continue
		}
		value := strings.ToLower(strings.TrimSpace(string(data)))
		if strings.Contains(value, "amazon") || strings.Contains(value, "ec2") {
			return true
		}
	}
	return false
}

// Metadata returns provider hints for the environment report.
func (d *Detector) Metadata() map[string]string {
	meta := make(map[string]string)
	for _, file := range []string{"sys_vendor", "product_name"} {
		data, err := os.ReadFile(filepath.Join(dmiPath, file))
		if err != nil {
			continue
		}
		meta[file] = strings.TrimSpace(string(data))
	}
	return meta
}

// NCCLSettings returns the recommended NCCL/EFA environment for AWS
// clusters. On non-AWS hosts the map is empty: there is nothing to
// recommend.
func (d *Detector) NCCLSettings() map[string]string {
	if !d.IsAWS() {
		return map[string]string{}
	}
	return map[string]string{
		"FI_PROVIDER":            "efa",
		"FI_EFA_USE_DEVICE_RDMA": "1",
		"FI_EFA_FORK_SAFE":       "1",
		"NCCL_PROTO":             "simple",
		"NCCL_SOCKET_IFNAME":     "^docker,lo",
		"NCCL_DEBUG":             "WARN",
	}
}
