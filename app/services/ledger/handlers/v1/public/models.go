package public

import (
	"github.com/fleetchain/ledger/business/sys/validate"
	"github.com/fleetchain/ledger/foundation/ledger"
)

// newTelemetry represents a telemetry record submitted by a client.
type newTelemetry struct {
	VehicleID string         `json:"vehicle_id" validate:"required"`
	Sensors   map[string]any `json:"sensors" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (nt newTelemetry) Validate() error {
	return validate.Check(nt)
}

// block represents a chain block as served by the API.
type block struct {
	Index        uint64         `json:"index"`
	TimeStamp    string         `json:"timestamp"`
	Kind         string         `json:"kind"`
	VehicleID    string         `json:"vehicle_id,omitempty"`
	Sensors      map[string]any `json:"sensors,omitempty"`
	Tag          string         `json:"tag,omitempty"`
	PreviousHash string         `json:"previous_hash"`
	Nonce        uint64         `json:"nonce"`
	Hash         string         `json:"hash"`
}

func toBlock(blk ledger.Block) block {
	return block{
		Index:        blk.Index,
		TimeStamp:    blk.TimeStamp,
		Kind:         blk.Payload.Kind,
		VehicleID:    blk.Payload.VehicleID,
		Sensors:      blk.Payload.Sensors,
		Tag:          blk.Payload.Tag,
		PreviousHash: blk.PrevBlockHash,
		Nonce:        blk.Nonce,
		Hash:         blk.Hash,
	}
}
