package transactions

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/hyperledger-labs/cc-tools/assets"
	"github.com/hyperledger-labs/cc-tools/errors"

	"github.com/hyperledger/fabric-private-chaincode/samples/chaincode/weighted-multisig/chaincode/multisig"
)

// maxExactFloat is the largest integer a JSON number decoded as float64 holds
// without rounding.
const maxExactFloat = 1<<53 - 1

// DataTypes are the custom argument types of the multisig transactions.
// Amounts and weights travel as decimal strings so the whole uint64 range
// survives the JSON request.
var DataTypes = map[string]assets.DataType{
	"uint64": {
		AcceptedFormats: []string{"string", "number"},
		Description:     "Unsigned 64-bit integer, as a decimal string",
		Parse: func(data interface{}) (string, interface{}, errors.ICCError) {
			v, err := parseUint64(data)
			if err != nil {
				return "", nil, err
			}
			return strconv.FormatUint(v, 10), v, nil
		},
	},
}

func parseUint64(data interface{}) (uint64, errors.ICCError) {
	switch v := data.(type) {
	case uint64:
		return v, nil
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, errors.WrapErrorWithStatus(err, "value must be an unsigned integer", 400)
		}
		return n, nil
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, errors.WrapErrorWithStatus(err, "value must be an unsigned integer", 400)
		}
		return n, nil
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, errors.NewCCError("value must be an unsigned integer", 400)
		}
		if v > maxExactFloat {
			return 0, errors.NewCCError("values above 2^53 must be sent as decimal strings", 400)
		}
		return uint64(v), nil
	default:
		return 0, errors.NewCCError("value must be an unsigned integer", 400)
	}
}

// uintArg reads a uint64 argument, whether cc-tools already parsed it or not.
func uintArg(req map[string]interface{}, tag string) (uint64, errors.ICCError) {
	raw, ok := req[tag]
	if !ok || raw == nil {
		return 0, errors.NewCCError(fmt.Sprintf("Missing argument %s", tag), 400)
	}
	v, err := parseUint64(raw)
	if err != nil {
		return 0, errors.WrapErrorWithStatus(err, fmt.Sprintf("Invalid argument %s", tag), 400)
	}
	return v, nil
}

// decodeOwners decodes the owner list. Weights follow the uint64 argument rules.
func decodeOwners(req map[string]interface{}, tag string) ([]multisig.Owner, errors.ICCError) {
	raw, ok := req[tag].([]interface{})
	if !ok {
		return nil, errors.NewCCError(fmt.Sprintf("Missing argument %s", tag), 400)
	}
	owners := make([]multisig.Owner, len(raw))
	for i, elem := range raw {
		obj, ok := elem.(map[string]interface{})
		if !ok {
			return nil, errors.NewCCError(fmt.Sprintf("Invalid argument %s: owner %d is not an object", tag, i), 400)
		}
		identity, ok := obj["identity"].(string)
		if !ok {
			return nil, errors.NewCCError(fmt.Sprintf("Invalid argument %s: owner %d has no identity", tag, i), 400)
		}
		weight, err := uintArg(obj, "weight")
		if err != nil {
			return nil, errors.WrapErrorWithStatus(err, fmt.Sprintf("Invalid argument %s: owner %d", tag, i), 400)
		}
		owners[i] = multisig.Owner{Identity: multisig.Address(identity), Weight: weight}
	}
	return owners, nil
}
