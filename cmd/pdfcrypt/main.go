package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	pdfcrypt "github.com/prepare/pdfcrypt"
	"github.com/prepare/pdfcrypt/codec"
	"github.com/prepare/pdfcrypt/i18n"
	"github.com/prepare/pdfcrypt/jsonschema"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "validate":
		validateCmd(os.Args[2:])
	case "schema":
		schemaCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "pdfcrypt CLI\n\nUsage:\n  pdfcrypt validate -in dict.bin [-slot stream|string|ef] [-strict] [-json] [-config cfg.yaml]\n  pdfcrypt schema [-o out.json]\n\nNotes:\n  - validate parses one crypt filter dictionary and reports all violations.\n  - schema emits the constraint table as a JSON Schema document.")
}

// config mirrors the optional YAML file accepted by -config.
type config struct {
	Mode      string `yaml:"mode"`      // strict | lenient
	Slot      string `yaml:"slot"`      // none | stream | string | ef | decode-parms
	PublicKey bool   `yaml:"publicKey"` // recipient blobs required
	Language  string `yaml:"language"`  // en | ja
}

func loadConfig(path string) (config, error) {
	var cfg config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

func parseSlot(s string) (pdfcrypt.Slot, error) {
	switch s {
	case "", "none":
		return pdfcrypt.SlotNone, nil
	case "stream":
		return pdfcrypt.SlotStream, nil
	case "string":
		return pdfcrypt.SlotString, nil
	case "ef":
		return pdfcrypt.SlotEmbeddedFile, nil
	case "decode-parms":
		return pdfcrypt.SlotDecodeParms, nil
	default:
		return pdfcrypt.SlotNone, fmt.Errorf("unknown slot %q", s)
	}
}

func validateCmd(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	var in, slotName, cfgPath string
	var strict, asJSON, publicKey bool
	fs.StringVar(&in, "in", "", "file holding one crypt filter dictionary ('-' for stdin)")
	fs.StringVar(&slotName, "slot", "", "referencing slot: stream, string, ef, decode-parms")
	fs.BoolVar(&strict, "strict", false, "treat tolerated anomalies as errors")
	fs.BoolVar(&publicKey, "pubkey", false, "parent handler is public-key based (Recipients required)")
	fs.BoolVar(&asJSON, "json", false, "emit the report as JSON")
	fs.StringVar(&cfgPath, "config", "", "optional YAML config")
	_ = fs.Parse(args)
	if in == "" {
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fatalf("config: %v", err)
	}
	if cfg.Language != "" {
		i18n.SetLanguage(cfg.Language)
	}
	mode := pdfcrypt.Lenient
	if strict || cfg.Mode == "strict" {
		mode = pdfcrypt.Strict
	}
	if slotName == "" {
		slotName = cfg.Slot
	}
	slot, err := parseSlot(slotName)
	if err != nil {
		fatalf("%v", err)
	}

	var data []byte
	if in == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(in)
	}
	if err != nil {
		fatalf("reading input: %v", err)
	}

	ctx := context.Background()
	dict, err := pdfcrypt.ParseDict(ctx, pdfcrypt.Bytes(data), pdfcrypt.ParseOpt{
		OnDuplicateKey: pdfcrypt.Warn,
		MaxDepth:       32,
	})
	iss, _ := pdfcrypt.AsIssues(err)
	if dict != nil {
		cf := pdfcrypt.AsCryptFilter(dict)
		iss = append(iss, cf.Validate(pdfcrypt.ValidateOpt{
			Slot: slot, Mode: mode, PublicKey: publicKey || cfg.PublicKey,
		})...)
	}

	report(iss, asJSON)
	if iss.HasErrors() {
		os.Exit(1)
	}
}

func schemaCmd(args []string) {
	fs := flag.NewFlagSet("schema", flag.ExitOnError)
	var out string
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	_ = fs.Parse(args)

	doc := jsonschema.FromRegistry(pdfcrypt.CryptFilterSchema())
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		fatalf("marshal: %v", err)
	}
	data = append(data, '\n')
	if out == "" {
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
}

func report(iss pdfcrypt.Issues, asJSON bool) {
	if asJSON {
		data, err := codec.MarshalIssues(iss)
		if err != nil {
			fatalf("marshal: %v", err)
		}
		fmt.Println(string(data))
		return
	}
	if len(iss) == 0 {
		fmt.Println("ok")
		return
	}
	for _, it := range iss {
		fmt.Printf("%s %s at %s: %s\n", it.Severity, it.Code, it.Path, it.Message)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
