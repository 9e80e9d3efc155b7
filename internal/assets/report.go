package assets

import (
	"path/filepath"

	"gazette/internal/dataset"
)

// FileReport counts records needing assets in one dataset file.
type FileReport struct {
	File    string
	Records int
	Missing int
}

// Report describes asset coverage across the dataset tree.
type Report struct {
	Files        []FileReport
	TotalRecords int
	TotalMissing int
}

// BuildReport scans the loaded files and counts records whose illustration
// is absent or dangling. Files are reported in load order.
func BuildReport(root string, files []*dataset.File) Report {
	var report Report
	for _, file := range files {
		entry := FileReport{File: filepath.Base(file.Path), Records: len(file.Records)}
		for _, record := range file.Records {
			if NeedsAsset(root, record) {
				entry.Missing++
			}
		}
		report.Files = append(report.Files, entry)
		report.TotalRecords += entry.Records
		report.TotalMissing += entry.Missing
	}
	return report
}
