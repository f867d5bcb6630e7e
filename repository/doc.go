// Package repository provides typed repositories over orm.Operations.
// Repositories hold no state besides the operations they delegate to and
// never translate, retry or log the errors those operations return.
package repository
