// Package modifier derives field values from changes to other fields.
//
// A field may carry an ordered list of modifier rules. When the field changes
// and a rule's condition holds for the new value, the rule combines the
// target field's current value with the rule value (add, subtract, multiply,
// divide, replace, concat, or a percentage) and stores the string result
// under the target. Propagation is single hop: values written by a rule never
// re-trigger the rules of the field they were written to.
package modifier
