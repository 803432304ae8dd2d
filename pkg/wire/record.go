package wire

import "fmt"

// Record is the module identity record exchanged with the device.
//
// CBOR encoding (field order is fixed):
//
//	{
//	  1: name,         // string, may be empty
//	  2: description,  // string, unused by the host core
//	  3: version,      // uint32
//	  4: identifier,   // uint32 content checksum
//	  5: index,        // int32 dispatch slot; sentinel when unbound
//	  6: device,       // uint32 device handle id, 0 = none
//	  7: data,         // opaque bytes, unused by the host core
//	  8: payloadSize   // uint32 hint, nullable, unused by the host core
//	}
type Record struct {
	Name        string  `cbor:"1,keyasint,omitempty"`
	Description string  `cbor:"2,keyasint,omitempty"`
	Version     uint32  `cbor:"3,keyasint,omitempty"`
	Identifier  uint32  `cbor:"4,keyasint,omitempty"`
	Index       int32   `cbor:"5,keyasint"`
	Device      uint32  `cbor:"6,keyasint,omitempty"`
	Data        []byte  `cbor:"7,keyasint,omitempty"`
	PayloadSize *uint32 `cbor:"8,keyasint,omitempty"`
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := r
	if r.Data != nil {
		out.Data = append([]byte(nil), r.Data...)
	}
	if r.PayloadSize != nil {
		size := *r.PayloadSize
		out.PayloadSize = &size
	}
	return out
}

// String returns a short description for logs.
func (r Record) String() string {
	name := r.Name
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("%s v%d id=0x%08x idx=%d", name, r.Version, r.Identifier, r.Index)
}
