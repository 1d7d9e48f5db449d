package agents

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/agent-instances/internal/tools"
	"github.com/JaimeStill/agent-instances/pkg/repository"
)

// ToolRef is one entry of an agent's tool list: either an unresolved handle
// or a resolved tool manifest. It marshals back to the shape it was read from,
// a JSON string or a JSON object.
type ToolRef struct {
	Name string
	Tool *tools.Tool
}

// Unresolved references a tool by handle.
func Unresolved(handle string) ToolRef {
	return ToolRef{Name: handle}
}

// Resolved wraps a tool manifest.
func Resolved(t tools.Tool) ToolRef {
	return ToolRef{Name: t.Handle, Tool: &t}
}

// IsResolved reports whether the reference carries a tool manifest.
func (r ToolRef) IsResolved() bool {
	return r.Tool != nil
}

// Handle returns the tool's handle whether or not it is resolved.
func (r ToolRef) Handle() string {
	if r.Tool != nil {
		return r.Tool.Handle
	}
	return r.Name
}

func (r ToolRef) MarshalJSON() ([]byte, error) {
	if r.Tool != nil {
		return json.Marshal(r.Tool)
	}
	return json.Marshal(r.Name)
}

func (r *ToolRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty tool reference")
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}
		if name == "" {
			return fmt.Errorf("empty tool handle")
		}
		*r = Unresolved(name)
	case '{':
		var t tools.Tool
		if err := json.Unmarshal(data, &t); err != nil {
			return err
		}
		*r = Resolved(t)
	default:
		return fmt.Errorf("tool reference must be a handle or a tool object, got %s", data)
	}
	return nil
}

// ToolRefs is the ordered tool list stored in the agents.tools jsonb column.
type ToolRefs []ToolRef

// Handles returns every reference's handle in order.
func (refs ToolRefs) Handles() []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = r.Handle()
	}
	return out
}

// Scan implements sql.Scanner.
func (refs *ToolRefs) Scan(src any) error {
	var out ToolRefs
	if err := repository.ScanJSON(src, &out); err != nil {
		return err
	}
	if out == nil {
		out = ToolRefs{}
	}
	*refs = out
	return nil
}

// Value implements driver.Valuer. A nil list is stored as an empty array.
func (refs ToolRefs) Value() (driver.Value, error) {
	if refs == nil {
		return "[]", nil
	}
	return repository.JSONValue([]ToolRef(refs))
}
