package domain

// ServiceName identifies a Google API surface held in the service registry.
type ServiceName string

const (
	// ServiceScript is the Apps Script API, used for every remote execution.
	ServiceScript ServiceName = "script"
	// ServiceDrive is the Google Drive API.
	ServiceDrive ServiceName = "drive"
	// ServiceSheets is the Google Sheets API.
	ServiceSheets ServiceName = "sheets"
	// ServiceForms is the Google Forms API.
	ServiceForms ServiceName = "forms"
)

// DefaultVersions maps each known service to the API version it is built with.
var DefaultVersions = map[ServiceName]string{
	ServiceScript: "v1",
	ServiceDrive:  "v3",
	ServiceSheets: "v4",
	ServiceForms:  "v1",
}

// KnownServices returns every service a registry can be built with.
func KnownServices() []ServiceName {
	return []ServiceName{ServiceScript, ServiceDrive, ServiceSheets, ServiceForms}
}

// IsKnown returns true if a client can be built for the service.
func (s ServiceName) IsKnown() bool {
	_, ok := DefaultVersions[s]
	return ok
}
