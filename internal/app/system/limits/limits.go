// internal/app/system/limits/limits.go
package limits

// Request body limits shared by the multipart endpoints. The overall body
// cap comes from max_upload_mb; these bound what is held in memory.
const (
	// MaxFormMemory is how much of a multipart form ParseMultipartForm keeps
	// in memory before spilling file parts to temporary files.
	MaxFormMemory = 32 << 20 // 32 MB

	// MaxStatusBody caps the JSON body of a status update.
	MaxStatusBody = 64 << 10 // 64 KB
)
