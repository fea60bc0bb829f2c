package lambdust

import "fmt"

// Config is a typed bag of runtime tunables, keyed by dotted path. It
// follows the same typed-cell map shape the teacher uses for grammar
// loader/compiler flags, retargeted to GC, macro, promise, and tiering
// knobs.
type Config map[string]*cfgVal

// NewConfig returns a Config primed with every default this runtime
// consults.
func NewConfig() *Config {
	m := make(Config)

	// GC tuning (spec §4.4).
	m.SetInt("gc.tlab_size_bytes", 32*1024)
	m.SetInt("gc.large_object_threshold_bytes", 8*1024)
	m.SetInt("gc.tenure_age", 3)
	m.SetInt("gc.minor_pause_target_ms", 10)
	m.SetBool("gc.parallel_marking", true)

	// Macro expander (spec §4.1).
	m.SetInt("macro.max_depth", 100)

	// Promises (spec §4.2).
	m.SetInt("promise.max_chain", 1_000_000)

	// Tiered compilation (spec §4.3).
	m.SetInt("tier.t1_promote_calls", 1_000)
	m.SetInt("tier.t2_promote_calls", 50_000)
	m.SetInt("tier.max_deopts_before_permanent_t0", 8)

	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("lambdust: can't assign %s to config cell of type %s", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("lambdust: can't read %s from config cell of type %s", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	(*c)[path] = &cfgVal{}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("lambdust: bool setting %q does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("lambdust: int setting %q does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("lambdust: string setting %q does not exist", path))
}
