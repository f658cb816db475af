// Package memory provides the in-process FormStore.
package memory
