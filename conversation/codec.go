package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownFlow is returned when decoding a record whose flow is not known
// to this build.
var ErrUnknownFlow = errors.New("unknown conversation flow")

// Encode serializes state for a durable Store.
func Encode(state State) (Flow, []byte, error) {
	payload, err := json.Marshal(state)
	if err != nil {
		return "", nil, fmt.Errorf("encode %s state: %w", state.Flow(), err)
	}
	return state.Flow(), payload, nil
}

// Decode restores a state produced by Encode.
func Decode(flow Flow, payload []byte) (State, error) {
	switch flow {
	case FlowRegistering:
		return decodeInto[Registering](flow, payload)
	case FlowAddingTask:
		return decodeInto[AddingTask](flow, payload)
	case FlowEditingTask:
		return decodeInto[EditingTask](flow, payload)
	case FlowAddingUser:
		return decodeInto[AddingUser](flow, payload)
	case FlowChangingRole:
		return decodeInto[ChangingRole](flow, payload)
	case FlowDeletingUser:
		return decodeInto[DeletingUser](flow, payload)
	case FlowUserMenu:
		return decodeInto[UserMenu](flow, payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlow, flow)
	}
}

func decodeInto[T State](flow Flow, payload []byte) (State, error) {
	var s T
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("decode %s state: %w", flow, err)
	}
	return s, nil
}
