package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// gin context keys
const (
	CurrentUserKey = "currentUser"
	RequestIDKey   = "requestID"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// 文件上传相关常量
const (
	MimeImage          = "image/"
	MaxImageUploadSize = 5 << 20
)
