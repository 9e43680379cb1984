package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/berrythewa/agenttext/internal/agenttext"
	"github.com/berrythewa/agenttext/internal/result"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"
)

// outgoingMessageSchema describes one element of a batch file.
const outgoingMessageSchema = `{
	"type": "object",
	"required": ["to", "content"],
	"properties": {
		"to": {"type": "string", "minLength": 1},
		"content": {"type": "string"}
	}
}`

func newBatchSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch-send <json_file>",
		Short: "Send messages listed in a JSON file",
		Long: `Send every message in a JSON file as a single batch.

The file holds an array of {"to": ..., "content": ...} objects. Comments
and trailing commas are allowed.

Examples:
  agenttext batch-send messages.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			messages, err := readBatchFile(args[0])
			if err != nil {
				return fail(cmd, err)
			}

			client, err := newClient()
			if err != nil {
				return fail(cmd, err)
			}

			GetZapLogger().Info("Sending batch", zap.Int("count", len(messages)))
			receipts, err := client.Messages.SendBatch(cmd.Context(), messages)
			if err != nil {
				return fail(cmd, err)
			}

			return newPrinter(cmd).Print(result.NewBatchResult(len(messages), receipts))
		},
	}
}

// readBatchFile loads and validates a batch file without touching the network.
func readBatchFile(path string) ([]agenttext.OutgoingMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, result.Validation("File not found: %s", path)
		}
		return nil, result.Validation("Failed to read %s: %v", path, err)
	}

	stripped := jsonc.ToJSON(data)

	var doc any
	dec := json.NewDecoder(bytes.NewReader(stripped))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, result.Validation("Invalid JSON: %v", err)
	}

	items, ok := doc.([]any)
	if !ok {
		return nil, result.Validation("JSON file must contain an array of messages")
	}

	schema, err := compileSchema(outgoingMessageSchema)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		if err := schema.Validate(item); err != nil {
			return nil, result.Validation("Invalid message at index %d: %v", i, err)
		}
	}

	var messages []agenttext.OutgoingMessage
	if err := json.Unmarshal(stripped, &messages); err != nil {
		return nil, result.Validation("Invalid JSON: %v", err)
	}
	return messages, nil
}

func compileSchema(doc string) (*jsonschema.Schema, error) {
	schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(doc)))
	if err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("message.json", schemaDoc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := c.Compile("message.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
