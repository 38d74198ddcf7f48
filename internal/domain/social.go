package domain

import (
	"strconv"

	"github.com/kapu/symbol-social-metadata-go/internal/constants"
)

// SocialMetadataEntry is a validated social link published through account metadata.
// URL and Name are never blank.
type SocialMetadataEntry struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Name          string `json:"name"`
	ImageURL      string `json:"imageUrl"`
	Namespace     string `json:"namespace"`
	SourceAddress string `json:"sourceAddress"`
	TargetAddress string `json:"targetAddress"`
}

// SocialMetadataID derives the positional id of the record at index in a fetch.
func SocialMetadataID(index int) string {
	return constants.SocialMetadataConfig.IDPrefix + strconv.Itoa(index)
}
