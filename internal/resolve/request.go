package resolve

import (
	"encoding/json"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Request is a GraphQL request body. Both operationName and operation_name are
// accepted.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

func (r *Request) UnmarshalJSON(b []byte) error {
	var raw struct {
		Query              string         `json:"query"`
		Variables          map[string]any `json:"variables"`
		OperationName      string         `json:"operationName"`
		OperationNameSnake string         `json:"operation_name"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	r.Query = raw.Query
	r.Variables = raw.Variables
	r.OperationName = raw.OperationName
	if r.OperationName == "" {
		r.OperationName = raw.OperationNameSnake
	}

	return nil
}

type Response struct {
	Data   *Object       `json:"data"`
	Errors gqlerror.List `json:"errors,omitempty"`

	// executed is set once the operation ran; only then is a nil Data written
	// as "data": null.
	executed bool
}

// MarshalJSON leaves data out for requests that failed before execution.
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Data == nil && !r.executed {
		return json.Marshal(struct {
			Errors gqlerror.List `json:"errors,omitempty"`
		}{Errors: r.Errors})
	}

	type response Response
	return json.Marshal(response(r))
}
