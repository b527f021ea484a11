package domain

// DataFormat tells the remote writeData function how to interpret its data.
// It is passed through without local validation.
type DataFormat string

const (
	// DataFormatJSON means data is a serialised JSON string.
	DataFormatJSON DataFormat = "json"
	// DataFormatArray means data is a nested list of rows.
	DataFormatArray DataFormat = "array"
)

// Remote function names implemented by the deployed Sheets script.
const (
	FunctionWriteData        = "writeData"
	FunctionListGoogleSheets = "listGoogleSheets"
	FunctionGetSheetNames    = "getSheetNames"
	FunctionReadData         = "readData"
)

// Spreadsheet is a spreadsheet visible to the authenticated account.
type Spreadsheet struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
