package ledger

import "encoding/json"

// Set of payload kinds a block can carry.
const (
	KindGenesis   = "genesis"
	KindTelemetry = "telemetry"
)

// genesisMessage is the fixed marker record carried by the genesis block.
const genesisMessage = "fleet ledger genesis"

// Payload represents the data sealed inside a block. It is a tagged variant:
// the genesis block carries only the marker message, telemetry blocks carry
// a vehicle record plus its authentication tag.
type Payload struct {
	Kind      string         `json:"kind"`
	Message   string         `json:"message,omitempty"`
	VehicleID string         `json:"vehicle_id,omitempty"`
	Sensors   map[string]any `json:"sensors,omitempty"`
	Tag       string         `json:"tag,omitempty"`
}

// GenesisPayload constructs the fixed marker payload for the genesis block.
func GenesisPayload() Payload {
	return Payload{
		Kind:    KindGenesis,
		Message: genesisMessage,
	}
}

// TelemetryPayload constructs a payload for a vehicle telemetry record. The
// authentication tag is a content-integrity hash over the vehicle id and the
// canonical encoding of the sensor readings. It is not a signature: no key
// material is involved and callers needing non-repudiation must layer that
// externally.
func TelemetryPayload(vehicleID string, sensors map[string]any) (Payload, error) {
	tag, err := Tag(vehicleID, sensors)
	if err != nil {
		return Payload{}, err
	}

	return Payload{
		Kind:      KindTelemetry,
		VehicleID: vehicleID,
		Sensors:   sensors,
		Tag:       tag,
	}, nil
}

// Encode returns the canonical text form of the payload. Struct fields are
// emitted in declaration order and map keys are sorted, so two structurally
// equal payloads always encode identically regardless of how the sensor map
// was built. The same encoding is used for hashing and for persistence, so
// the two can never drift apart.
func (p Payload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", &SerializationError{Err: err}
	}

	return string(data), nil
}
