package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-formstate/pkg/descriptor"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/tui"
)

func main() {
	definition := flag.String("form", "", "path to a YAML/JSON form definition")
	document := flag.String("openapi", "", "path to an OpenAPI document (alternative to -form)")
	operation := flag.String("operation", "", "operation ID to derive the form from (with -openapi)")
	output := flag.String("output", "", "output file for collected values (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	def, err := loadDefinition(ctx, *definition, *document, *operation)
	if err != nil {
		log.Fatalf("Failed to load form definition: %v", err)
	}

	frm := form.New(def.InitialValues())
	filler := tui.NewFiller()

	values, err := filler.Fill(ctx, frm, def)
	if err != nil {
		log.Fatalf("Session failed: %v", err)
	}

	payload, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode values: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Values written to %s\n", *output)
	} else {
		fmt.Println(string(payload))
	}
}

func loadDefinition(ctx context.Context, definitionPath, documentPath, operationID string) (descriptor.Form, error) {
	switch {
	case definitionPath != "":
		data, err := os.ReadFile(definitionPath)
		if err != nil {
			return descriptor.Form{}, err
		}
		return descriptor.Parse(data, definitionPath)

	case documentPath != "":
		if operationID == "" {
			return descriptor.Form{}, fmt.Errorf("-operation is required with -openapi")
		}
		data, err := os.ReadFile(documentPath)
		if err != nil {
			return descriptor.Form{}, err
		}
		return openapi.FormFromOperation(ctx, data, operationID)

	default:
		return descriptor.Form{}, fmt.Errorf("one of -form or -openapi is required")
	}
}
