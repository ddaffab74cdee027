package pepe

// Reserved variable names, overwritten automatically on every processed line.
const (
	VarFile = "__FILE__"
	VarLine = "__LINE__"
)

// Content-type labels with special meaning to the resolver.
const (
	// ContentTypeXML is forced whenever a file's first bytes are an XML
	// declaration, regardless of what name-based resolution said.
	ContentTypeXML = "XML"
)

// xmlSniffPrefix is the byte prefix that triggers the XML content override.
const xmlSniffPrefix = "<?xml"

// Content-type configuration pattern markers.
const (
	extensionRulePrefix = "."
	regexRuleDelimiter  = "/"
)

// Directive normalization templates for #ifdef/#ifndef.
const (
	fmtExprDefined    = "defined('%s')"
	fmtExprNotDefined = "not defined('%s')"
)
