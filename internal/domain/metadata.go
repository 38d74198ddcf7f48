package domain

import (
	"bytes"

	"github.com/kapu/symbol-social-metadata-go/internal/ledger"
	"github.com/kapu/symbol-social-metadata-go/pkg/json"
)

// MetadataType identifies what a metadata entry is attached to.
type MetadataType int

const (
	MetadataTypeAccount   MetadataType = 0
	MetadataTypeMosaic    MetadataType = 1
	MetadataTypeNamespace MetadataType = 2
)

// RawMetadataRecord is one element of the node's /metadata "data" array.
type RawMetadataRecord struct {
	ID            string        `json:"id"`
	MetadataEntry MetadataEntry `json:"metadataEntry"`

	decodeErr error
}

// UnmarshalJSON never fails on a well-formed element. A record whose fields have
// the wrong shape keeps its id, if readable, and reports the problem via DecodeErr
// so one bad element does not take the rest of the page down with it.
func (r *RawMetadataRecord) UnmarshalJSON(data []byte) error {
	type plain RawMetadataRecord
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		var head struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.Unmarshal(data, &head)
		var id string
		_ = json.Unmarshal(head.ID, &id)
		*r = RawMetadataRecord{ID: id, decodeErr: err}
		return nil
	}
	*r = RawMetadataRecord(p)
	r.decodeErr = nil
	return nil
}

// DecodeErr reports why the record could not be read into its typed fields, if it could not.
func (r RawMetadataRecord) DecodeErr() error {
	return r.decodeErr
}

// MetadataEntry is the ledger-side payload of a metadata record. Value is hex encoded.
type MetadataEntry struct {
	Version           int          `json:"version,omitempty"`
	CompositeHash     string       `json:"compositeHash,omitempty"`
	SourceAddress     AddressField `json:"sourceAddress"`
	TargetAddress     AddressField `json:"targetAddress"`
	ScopedMetadataKey string       `json:"scopedMetadataKey"`
	TargetID          string       `json:"targetId,omitempty"`
	MetadataType      MetadataType `json:"metadataType"`
	ValueSize         int          `json:"valueSize,omitempty"`
	Value             string       `json:"value"`
}

// MetadataPage is a page of records together with the node's pagination block.
type MetadataPage struct {
	Data       []RawMetadataRecord `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

type Pagination struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// AddressField holds an address exactly as the node returned it: either a plain
// string (encoded hex or human readable) or a structured {"address": ...} object.
type AddressField struct {
	Raw     string
	Address *ledger.Address
}

// NewAddressString wraps a string address as received from the node.
func NewAddressString(raw string) AddressField {
	return AddressField{Raw: raw}
}

// NewAddressObject wraps an already constructed address.
func NewAddressObject(addr *ledger.Address) AddressField {
	return AddressField{Raw: addr.Plain(), Address: addr}
}

// IsObject reports whether the node sent a structured address.
func (f AddressField) IsObject() bool {
	return f.Address != nil
}

// String returns the value the node sent, rendering structured addresses in plain form.
func (f AddressField) String() string {
	if f.Address != nil {
		return f.Address.Plain()
	}
	return f.Raw
}

type addressObject struct {
	Address     string `json:"address"`
	NetworkType int    `json:"networkType,omitempty"`
}

func (f *AddressField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = AddressField{}
		return nil
	}

	if data[0] == '{' {
		var obj addressObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*f = AddressField{Raw: obj.Address}
		if addr, err := parseAnyAddress(obj.Address); err == nil {
			f.Address = addr
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = AddressField{Raw: s}
	return nil
}

func (f AddressField) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

func parseAnyAddress(s string) (*ledger.Address, error) {
	if ledger.IsEncodedAddress(s) {
		return ledger.AddressFromEncoded(s)
	}
	return ledger.AddressFromRaw(s)
}

// MetadataView is a metadata record formatted for display.
type MetadataView struct {
	MetadataID        string `json:"metadataId"`
	CompositeHash     string `json:"compositeHash,omitempty"`
	ScopedMetadataKey string `json:"scopedMetadataKey"`
	SourceAddress     string `json:"sourceAddress"`
	TargetAddress     string `json:"targetAddress"`
	MetadataType      string `json:"metadataType"`
	TargetID          string `json:"targetId"`
	Value             string `json:"value"`
	DecodedValue      string `json:"decodedValue"`
}
