package ledger

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Tag computes the authentication tag for a telemetry record: a 256 bit
// content hash over the vehicle id concatenated with the canonical encoding
// of the sensor readings. It provides tamper evidence for the record itself,
// independent of the chain hash that seals the whole block.
func Tag(vehicleID string, sensors map[string]any) (string, error) {
	data, err := json.Marshal(sensors)
	if err != nil {
		return "", &SerializationError{Err: err}
	}

	hash := crypto.Keccak256([]byte(vehicleID), data)

	return hexutil.Encode(hash), nil
}
