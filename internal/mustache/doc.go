// Package mustache renders Mustache-style templates against JSON values.
//
// Templates are interpreted in a single pass without building a syntax tree.
// Supported tags:
//
//	{{name}}                    HTML-escaped substitution
//	{{{name}}}                  raw substitution
//	{{#name}}...{{/name}}       section, iterates arrays and rebinds the context
//	{{^name}}...{{/name}}       rendered when name is missing, null or false
//	{{?name}}...{{/name}}       rendered once when name is truthy, context unchanged;
//	                            arrays, even empty ones, are never iterated
//	{{=name value}}...{{/name}} rendered when name equals value, ignoring case
//	{{!=name value}}...{{/name}} rendered when name differs from value
//	{{%name}}                   length of an array or string
//	{{~name}}                   indented JSON dump of an object or array
//	{{>name}}                   partial, rendered with the current context
//	{{!comment}}                discarded
//
// Names are dotted paths. A quoted component may contain dots and "." is
// the current context. Names not found in the current context are looked up
// in the enclosing ones.
package mustache
