package config

const (
	// MaxFolderNameLength is the maximum length for folder names typed by
	// users. Kept short so breadcrumbs stay readable on the spis screen.
	MaxFolderNameLength = 120

	// MaxItemNameLength bounds any stored item name, including uploaded
	// file names (timestamp prefix included) and migrated legacy names.
	MaxItemNameLength = 255

	// MaxDescriptionLength is the maximum length for a file note.
	MaxDescriptionLength = 2000

	// MaxRecordNameLength is the maximum length for a spis name.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxRecordNameLength = 255

	// MaxDisplayNameLength bounds the createdBy override in preferences.
	MaxDisplayNameLength = 100

	// MaxJSONBodySize caps JSON request bodies.
	MaxJSONBodySize = 1 << 20

	// MaxUploadSize caps a single dropped file before compression.
	MaxUploadSize = 50 << 20

	// MaxUploadRequestSize caps a whole multipart upload request.
	MaxUploadRequestSize = 200 << 20

	// MaxUploadBatch is the number of files accepted in one drop.
	MaxUploadBatch = 50
)

// Image compression defaults. A compressed image is only kept when it is
// strictly smaller than the original.
const (
	DefaultImageMaxWidth  = 1920
	DefaultImageMaxHeight = 1920
	DefaultImageQuality   = 0.8
	DefaultImageFormat    = "jpeg"

	// MinCompressSize is the size below which images are stored as-is.
	MinCompressSize = 100 << 10
)
