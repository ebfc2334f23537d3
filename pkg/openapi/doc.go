// Package openapi builds field documents from the request body of an OpenAPI
// operation. Object properties become fields, nested objects become subForms
// and arrays of objects become repeatable rows. Form specific attributes that
// have no OpenAPI equivalent (width, modifiers, conditions) are read from the
// x-formrules extension of each property.
package openapi
