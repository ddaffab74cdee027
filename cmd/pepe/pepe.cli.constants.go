package main

// Exit codes
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// Flag names
const (
	FlagDefine                 = "define"
	FlagDefineShort            = "D"
	FlagInclude                = "include"
	FlagIncludeShort           = "I"
	FlagOutput                 = "output"
	FlagOutputShort            = "o"
	FlagForce                  = "force"
	FlagForceShort             = "f"
	FlagKeepLines              = "keep-lines"
	FlagKeepLinesShort         = "k"
	FlagSubstitute             = "substitute"
	FlagSubstituteShort        = "s"
	FlagDefaultContentType     = "default-content-type"
	FlagContentTypesConfig     = "content-types-config"
	FlagContentTypesConfShort  = "c"
	FlagPrintContentTypes      = "print-content-types"
	FlagPrintContentTypesShort = "p"
	FlagVerbose                = "verbose"
)

// Output formats
const (
	FmtCLIError = "pepe: error: %v\n"
)

// Error messages
const (
	ErrMsgInputRequired = "an input file is required"
)

// CLI usage text
const (
	cliUse   = "pepe [flags] INPUT"
	cliShort = "Language-agnostic line preprocessor"
	cliLong  = `Pepe preprocesses a text file, recognizing #if/#elif/#else/#endif,
#ifdef/#ifndef, #define/#undef, #error and #include directives written inside
the file's own comment syntax. Directive lines are consumed; content lines
are emitted or suppressed according to the conditional structure, evaluated
against variables supplied with -D.`
)
