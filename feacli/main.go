package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otfea/fea"
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'otfea.tools'
func tracer() tracing.Trace {
	return tracing.Select("otfea.tools")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   "go",
		"trace.otfea.tools": "Info",
		"trace.font.fea":    "Error",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	feafile := flag.String("fea", "", "Feature file to load")
	fontfile := flag.String("font", "", "Font to take the glyph set from")
	flag.Parse()
	tracer().SetTraceLevel(tracing.LevelError) // will set the correct level later
	pterm.Info.Println("Welcome to the feature file CLI")
	//
	// set up REPL
	repl, err := readline.New("fea > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := NewIntp()
	intp.repl = repl
	if *feafile != "" {
		if err := intp.loadFeatures(*feafile); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	if *fontfile != "" {
		if err := intp.loadGlyphs(*fontfile, ""); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D")
	switch *tlevel {
	case "Debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "Info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	case "Error":
		tracer().SetTraceLevel(tracing.LevelError)
	default:
		tracer().Errorf("Invalid trace level: %s", *tlevel)
		os.Exit(5)
	}
	tracer().Infof("Trace level is %s", *tlevel)
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Intp is our interpreter object. It holds the loaded feature file, the
// current subset target and the result of the last subset operation.
type Intp struct {
	repl    *readline.Instance
	path    string
	source  *fea.Feature // as loaded
	feature *fea.Feature // current model, source or subset
	script  ot.Tag
	lang    ot.Tag
	glyphs  fea.GlyphSet
}

// NewIntp creates an interpreter without a feature file, targeting DFLT/dflt.
func NewIntp() *Intp {
	return &Intp{script: ot.DFLT, lang: ot.DFLTLang}
}

func (intp *Intp) String() string {
	if intp == nil || intp.source == nil {
		return "()"
	}
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("( file=%s target=%s/%s", intp.path, intp.script.Trimmed(), intp.lang.Trimmed()))
	if intp.glyphs != nil {
		sb.WriteString(fmt.Sprintf(" glyphs=%d", len(intp.glyphs)))
	}
	if intp.feature != intp.source {
		sb.WriteString(" subset")
	}
	sb.WriteString(" )")
	return sb.String()
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd, err := parseCommand(line)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		err, quit := intp.execute(cmd)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a single step of a command line, e.g. "script:latn" or
// "font:fonts/Font.otf:fi" (code, arg, opt).
type Op struct {
	code int
	arg  string
	opt  string
}

// Command is a sequence of steps, separated by blanks.
type Command struct {
	op []Op
}

const (
	// op-codes QUIT and RESET will not have arguments
	QUIT int = iota
	RESET
	// op-codes below may have arguments
	HELP
	LOAD
	FEATURES
	SCRIPTS
	CLASSES
	LOOKUPS
	SCRIPT
	LANG
	GLYPHS
	FONT
	SUBSET
	WRITE
)

var opMap = map[string]int{
	"quit":     QUIT,
	"reset":    RESET,
	"help":     HELP,
	"load":     LOAD,
	"features": FEATURES,
	"scripts":  SCRIPTS,
	"classes":  CLASSES,
	"lookups":  LOOKUPS,
	"script":   SCRIPT,
	"lang":     LANG,
	"glyphs":   GLYPHS,
	"font":     FONT,
	"subset":   SUBSET,
	"write":    WRITE,
}

var opNames = []string{
	"quit",
	"reset",
	"help",
	"load",
	"features",
	"scripts",
	"classes",
	"lookups",
	"script",
	"lang",
	"glyphs",
	"font",
	"subset",
	"write",
}

func parseCommand(line string) (*Command, error) {
	cmd := &Command{}
	for _, step := range strings.Fields(line) {
		c := strings.SplitN(step, ":", 3) // e.g. "script:latn" or "font:x.otf:text" or "help:subset"
		name := strings.ToLower(c[0])
		code, ok := opMap[name]
		if !ok {
			return nil, fmt.Errorf("unknown command: %s", name)
		}
		op := Op{code: code}
		if code > RESET {
			op.arg = getOptArg(c, 1)
			op.opt = getOptArg(c, 2)
		}
		tracer().Debugf("parsed command step: %v", c)
		cmd.op = append(cmd.op, op)
		if code == QUIT {
			break
		}
	}
	return cmd, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:     quitOp,
	RESET:    resetOp,
	HELP:     helpOp,
	LOAD:     loadOp,
	FEATURES: featuresOp,
	SCRIPTS:  scriptsOp,
	CLASSES:  classesOp,
	LOOKUPS:  lookupsOp,
	SCRIPT:   scriptOp,
	LANG:     langOp,
	GLYPHS:   glyphsOp,
	FONT:     fontOp,
	SUBSET:   subsetOp,
	WRITE:    writeOp,
}

func (intp *Intp) execute(cmd *Command) (err error, stop bool) {
	tracer().Debugf("cmd = %v", cmd.op)
	for _, c := range cmd.op {
		f, ok := commandFn[c.code]
		if !ok {
			pterm.Error.Printf("unknown command code: %d\n", c.code)
			return nil, false
		}
		tracer().Infof("%s %s", opNames[c.code], c.arg)
		err, stop = f(intp, &c)
		if err != nil {
			pterm.Error.Println(err)
			return
		}
		if stop {
			return
		}
	}
	return
}

func getOptArg(s []string, inx int) string {
	if len(s) > inx {
		return s[inx]
	}
	return ""
}

func (op *Op) noArg() bool {
	return op.arg == ""
}

func (op *Op) hasArg() (string, bool) {
	if op.arg == "" {
		return "", false
	}
	return op.arg, true
}
