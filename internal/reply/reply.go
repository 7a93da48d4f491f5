package reply

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// Decode interprets a command reply document.
// Returns (nil, nil) when the reply reports success without a write concern error.
//
// A failed reply always decodes to a CommandError, including the NotPrimary
// and node-recovering codes; no ErrorKind is inferred from the code.
func Decode(doc bson.Raw) (retryclass.Failure, error) {
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", retryclass.ErrInvalidReply, err)
	}

	okVal, err := doc.LookupErr("ok")
	if err != nil {
		return nil, fmt.Errorf("%w: missing ok field", retryclass.ErrInvalidReply)
	}
	ok, isNum := number(okVal)
	if !isNum {
		return nil, fmt.Errorf("%w: ok field is %s, want a number", retryclass.ErrInvalidReply, okVal.Type)
	}

	labels, err := errorLabels(doc)
	if err != nil {
		return nil, err
	}

	if ok == 0 {
		return commandError(doc, labels)
	}

	if _, err := doc.LookupErr("writeConcernError"); err == nil {
		return &retryclass.WriteConcernError{
			Response: doc,
			Labels:   retryclass.NewLabelSet(labels...),
		}, nil
	}

	return nil, nil
}

// DecodeJSON parses a reply written as MongoDB Extended JSON and decodes it.
func DecodeJSON(data []byte) (retryclass.Failure, error) {
	var d bson.D
	if err := bson.UnmarshalExtJSON(data, false, &d); err != nil {
		return nil, fmt.Errorf("%w: %v", retryclass.ErrInvalidReply, err)
	}
	raw, err := bson.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", retryclass.ErrInvalidReply, err)
	}
	return Decode(raw)
}

func commandError(doc bson.Raw, labels []string) (*retryclass.CommandError, error) {
	codeVal, err := doc.LookupErr("code")
	if err != nil {
		return nil, fmt.Errorf("%w: failed reply without code", retryclass.ErrInvalidReply)
	}
	code, isCode := retryclass.CodeFromValue(codeVal)
	if !isCode {
		return nil, fmt.Errorf("%w: code field is %s, want an integer", retryclass.ErrInvalidReply, codeVal.Type)
	}

	cmdErr := &retryclass.CommandError{
		Code:   code,
		Labels: retryclass.NewLabelSet(labels...),
	}
	if name, ok := doc.Lookup("codeName").StringValueOK(); ok {
		cmdErr.Name = name
	}
	if msg, ok := doc.Lookup("errmsg").StringValueOK(); ok {
		cmdErr.Message = msg
	}
	return cmdErr, nil
}

func errorLabels(doc bson.Raw) ([]string, error) {
	val, err := doc.LookupErr("errorLabels")
	if err != nil {
		return nil, nil
	}

	arr, ok := val.ArrayOK()
	if !ok {
		return nil, fmt.Errorf("%w: errorLabels is %s, want an array", retryclass.ErrInvalidReply, val.Type)
	}
	values, err := arr.Values()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", retryclass.ErrInvalidReply, err)
	}

	labels := make([]string, 0, len(values))
	for i, v := range values {
		s, ok := v.StringValueOK()
		if !ok {
			return nil, fmt.Errorf("%w: errorLabels[%d] is %s, want a string", retryclass.ErrInvalidReply, i, v.Type)
		}
		labels = append(labels, s)
	}
	return labels, nil
}

// number reads ok. Servers send a double; hand-written replies often use
// integers or booleans.
func number(val bson.RawValue) (float64, bool) {
	if v, ok := val.DoubleOK(); ok {
		return v, true
	}
	if v, ok := val.Int32OK(); ok {
		return float64(v), true
	}
	if v, ok := val.Int64OK(); ok {
		return float64(v), true
	}
	if v, ok := val.BooleanOK(); ok {
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
