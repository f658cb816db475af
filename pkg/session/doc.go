/*
Package session manages live forms addressed by id.

The Manager keeps forms in a ports.FormStore and serialises operations on one form
with a per-id mutex. Lock entries are reference counted and dropped once no caller
holds or waits for them.
*/
package session
