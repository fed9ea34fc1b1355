package liquidator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// describeFailure turns a submission or confirmation error into the
// descriptive text recorded in the audit line's transactionHash field.
// Three shapes: a JSON error body is embedded verbatim, a non-JSON body is
// embedded with a parse-failure note, and a bodyless error contributes just
// its message.
func describeFailure(err error) string {
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if body := dataErr.ErrorData(); body != nil {
			switch typed := body.(type) {
			case string:
				if json.Valid([]byte(typed)) {
					return fmt.Sprintf("transaction failed: %s: %s", err.Error(), typed)
				}
				return fmt.Sprintf("transaction failed: %s: body did not parse as JSON: %s", err.Error(), typed)
			default:
				if encoded, marshalErr := json.Marshal(typed); marshalErr == nil {
					return fmt.Sprintf("transaction failed: %s: %s", err.Error(), encoded)
				}
				return fmt.Sprintf("transaction failed: %s: body did not parse as JSON: %v", err.Error(), typed)
			}
		}
	}

	return "transaction failed: " + err.Error()
}
