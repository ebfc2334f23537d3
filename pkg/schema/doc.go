// Package schema holds the declarative field model shared by every formrules
// package: field definitions, conditions, modifier rules and the form data
// mapping they operate on.
//
// Documents are JSON or YAML files containing either an object with a
// `fields` list or a bare list of fields. Load and Parse validate the payload
// against an embedded JSON Schema before decoding it, so structural mistakes
// surface as a *ValidationError with one Issue per problem. Referential
// problems (a modifier targeting an unknown sibling, duplicate names) are not
// fatal; Lint reports them as warnings.
//
// Conditions may be written as objects:
//
//	hiddenWhen: {field: showExtra, when: "false"}
//
// or with the shorthand grammar understood by ParseCondition:
//
//	hiddenWhen: "showExtra false"
//	disabledWhen: "age between [18, 65]"
//	hiddenWhen: "code matches /^A\d+$/"
package schema
