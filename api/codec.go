package api

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	fieldparams "github.com/frostfork/frostbridge/config/fieldparams"
	"github.com/frostfork/frostbridge/consensus/beacon"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
}.Froze()

// UnmarshalCheckpoint decodes a raw checkpoint payload into its consensus
// form.
func UnmarshalCheckpoint(data []byte) (*beacon.Checkpoint, error) {
	var resp CheckpointResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal checkpoint response")
	}
	return resp.ToCheckpoint()
}

// UnmarshalUpdate decodes a raw finality update payload into its consensus
// form.
func UnmarshalUpdate(data []byte) (*beacon.Update, error) {
	var resp UpdateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal update response")
	}
	return resp.ToUpdate()
}

// UnmarshalExecutionHeaderUpdate decodes a raw execution header update
// payload into its consensus form.
func UnmarshalExecutionHeaderUpdate(data []byte) (*beacon.ExecutionHeaderUpdate, error) {
	var resp HeaderUpdateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal header update response")
	}
	return resp.ToExecutionHeaderUpdate()
}

// MarshalCheckpoint re-encodes a checkpoint for submission.
func MarshalCheckpoint(cp *beacon.Checkpoint) ([]byte, error) {
	return json.Marshal(CheckpointFromTypes(cp))
}

// MarshalUpdate re-encodes a finality update for submission.
func MarshalUpdate(u *beacon.Update) ([]byte, error) {
	return json.Marshal(UpdateFromTypes(u))
}

// MarshalExecutionHeaderUpdate re-encodes an execution header update for
// submission.
func MarshalExecutionHeaderUpdate(u *beacon.ExecutionHeaderUpdate) ([]byte, error) {
	return json.Marshal(ExecutionHeaderUpdateFromTypes(u))
}

func decodeUint64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "could not parse %q as uint64", s)
	}
	return v, nil
}

// decodeBytes accepts hex with or without a 0x prefix.
func decodeBytes(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

func decodeSized(s string, length int) ([]byte, error) {
	decoded, err := decodeBytes(s)
	if err != nil {
		return nil, err
	}
	if len(decoded) != length {
		return nil, errors.Errorf("expected %d bytes, got %d", length, len(decoded))
	}
	return decoded, nil
}

func decodeHash(s string) ([]byte, error) {
	return decodeSized(s, fieldparams.RootLength)
}

func decodeBytes48(s string) ([]byte, error) {
	return decodeSized(s, fieldparams.BLSPubkeyLength)
}

func decodeBytes96(s string) ([]byte, error) {
	return decodeSized(s, fieldparams.BLSSignatureLength)
}

func decodeBitvector(s string) ([]byte, error) {
	return decodeSized(s, fieldparams.SyncCommitteeLength/8)
}

func decodeBranch(branch []string) ([][]byte, error) {
	nodes := make([][]byte, len(branch))
	for i, node := range branch {
		decoded, err := decodeHash(node)
		if err != nil {
			return nil, errors.Wrapf(err, "branch node %d", i)
		}
		nodes[i] = decoded
	}
	return nodes, nil
}

func encodeUint64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func encodeBranch(branch [][]byte) []string {
	nodes := make([]string, len(branch))
	for i, node := range branch {
		nodes[i] = hexutil.Encode(node)
	}
	return nodes
}
