package constants

import "time"

var SocialMetadataConfig = struct {
	ScopedMetadataKey string
	PageSize          int
	IDPrefix          string
}{
	ScopedMetadataKey: "D6FBBD8C20F5AC1C", // key under which social links are published
	PageSize:          100,
	IDPrefix:          "smd-",
}

var APIConfig = struct {
	MetadataPath   string
	RequestTimeout time.Duration
	UserAgent      string
	PreviewLength  int
}{
	MetadataPath:   "/metadata",
	RequestTimeout: 15 * time.Second,
	UserAgent:      "symbol-social-metadata-go/1.0",
	PreviewLength:  100, // characters of raw values kept in logs
}

var StoreConfig = struct {
	RedisKey      string
	RedisTimeout  time.Duration
	FetchDeadline time.Duration
}{
	RedisKey:      "symbol:social_metadata",
	RedisTimeout:  3 * time.Second,
	FetchDeadline: 10 * time.Minute,
}

// MetadataTypeLabels maps ledger metadata type codes to display labels.
var MetadataTypeLabels = map[int]string{
	0: "Account",
	1: "Mosaic",
	2: "Namespace",
}

const (
	Unavailable         = "N/A"
	UnknownMetadataType = "Unknown"
)
