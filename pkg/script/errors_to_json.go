package script

import (
	"encoding/json"

	"src.tarn.sh/pkg/diag"
	"src.tarn.sh/pkg/eval"
)

// An auxiliary struct for converting errors with diagnostics information to JSON.
type errorInJSON struct {
	FileName string `json:"fileName"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// An auxiliary struct for converting errors with only a message to JSON.
type simpleErrorInJSON struct {
	Message string `json:"message"`
}

// Converts the errors into a JSON array.
func errorsToJSON(errs []error) []byte {
	arr := make([]any, 0, len(errs))
	for _, err := range errs {
		switch err := err.(type) {
		case *diag.Error:
			arr = append(arr,
				errorInJSON{err.Context.Name, err.Context.From, err.Context.To, err.Message})
		case eval.Exception:
			if st := err.StackTrace(); st != nil {
				arr = append(arr,
					errorInJSON{st.Head.Name, st.Head.From, st.Head.To, err.Error()})
			} else {
				arr = append(arr, simpleErrorInJSON{err.Error()})
			}
		default:
			arr = append(arr, simpleErrorInJSON{err.Error()})
		}
	}
	jsonError, errMarshal := json.Marshal(arr)
	if errMarshal != nil {
		return []byte(`[{"message":"Unable to convert the errors to JSON"}]`)
	}
	return jsonError
}
