package main

import (
	"encoding/json"
	"fmt"

	onetable "github.com/cloudxsgmbh/onetable-expr"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type translateOptions struct {
	properties string
	where      string
	fields     []string
	exists     string
	typ        string
	add        string
	remove     []string
	del        string
	batch      bool
	high       bool
	consistent bool
	reverse    bool
	limit      int
	ret        string
	capacity   string
	typed      bool
}

func newTranslateCommand() *cobra.Command {
	var opts translateOptions
	cmd := &cobra.Command{
		Use:   "translate <op>",
		Short: "Print the DynamoDB command for an operation",
		Long: `Translate a model operation (get, put, find, scan, update, delete) into
the DynamoDB command map and print it as JSON. Nothing is sent to DynamoDB.

Properties and bulk update maps are YAML or JSON objects, for example:

  otexpr translate find -m User -p '{email: "a@b.c"}' --where '${status} = {"active"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := onetable.ParseOp(args[0])
			if err != nil {
				return err
			}
			cfg := getConfig(cmd.Context())
			if cfg.Model == "" {
				return fmt.Errorf("no model given (use --model)")
			}
			params, err := opts.params(cfg.Index)
			if err != nil {
				return err
			}
			props, err := parseObject("properties", opts.properties)
			if err != nil {
				return err
			}

			table, flush, err := openTable(cfg)
			if err != nil {
				return err
			}
			defer flush()
			model, err := table.GetModel(cfg.Model)
			if err != nil {
				return err
			}
			expr, err := model.Expression(op, props, params)
			if err != nil {
				return err
			}
			command, err := expr.Command()
			if err != nil {
				return err
			}

			var out any = command
			switch {
			case command == nil && expr.Fallback():
				out = map[string]any{"fallback": true}
			case command == nil:
				out = map[string]any{"command": nil}
			case opts.typed && !params.Batch:
				if out, err = onetable.Input(op, command); err != nil {
					return err
				}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.properties, "properties", "p", "", "Operation properties as a YAML/JSON object")
	f.StringVarP(&opts.where, "where", "w", "", "Where clause")
	f.StringSliceVar(&opts.fields, "fields", nil, "Fields to project")
	f.StringVar(&opts.exists, "exists", "", "Existence precondition (true|false)")
	f.StringVar(&opts.typ, "type", "", "Attribute type precondition on the sort key")
	f.StringVar(&opts.add, "add", "", "Bulk add map (YAML/JSON)")
	f.StringSliceVar(&opts.remove, "remove", nil, "Attributes to remove")
	f.StringVar(&opts.del, "delete", "", "Bulk delete map (YAML/JSON)")
	f.BoolVar(&opts.batch, "batch", false, "Shape the command as a batch entry")
	f.BoolVar(&opts.high, "high", false, "Fall back instead of using a partial key")
	f.BoolVar(&opts.consistent, "consistent", false, "Strongly consistent read")
	f.BoolVar(&opts.reverse, "reverse", false, "Reverse the sort order")
	f.IntVar(&opts.limit, "limit", 0, "Maximum number of items")
	f.StringVar(&opts.ret, "return", "", "ReturnValues mode")
	f.StringVar(&opts.capacity, "capacity", "", "ReturnConsumedCapacity mode")
	f.BoolVar(&opts.typed, "typed", false, "Print the typed SDK input instead of the command map")
	return cmd
}

func (o *translateOptions) params(index string) (*onetable.Params, error) {
	p := &onetable.Params{
		Index:      index,
		Type:       o.typ,
		Where:      o.where,
		Fields:     o.fields,
		Remove:     o.remove,
		Batch:      o.batch,
		High:       o.high,
		Consistent: o.consistent,
		Reverse:    o.reverse,
		Limit:      o.limit,
		Return:     o.ret,
		Capacity:   o.capacity,
	}
	switch o.exists {
	case "":
	case "true":
		p.Exists = boolPtr(true)
	case "false":
		p.Exists = boolPtr(false)
	default:
		return nil, fmt.Errorf("invalid --exists %q (want true or false)", o.exists)
	}
	var err error
	if p.Add, err = parseObject("add", o.add); err != nil {
		return nil, err
	}
	if p.Delete, err = parseObject("delete", o.del); err != nil {
		return nil, err
	}
	return p, nil
}

// parseObject decodes a YAML or JSON object. An empty string yields nil.
func parseObject(name, text string) (map[string]any, error) {
	if text == "" {
		return nil, nil
	}
	var out map[string]any
	if err := yaml.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }
