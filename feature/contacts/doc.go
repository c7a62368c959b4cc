// Package contacts synchronizes club members with a Google contact group.
//
// Members are diffed against the group by normalized email address and
// applied through the batch endpoints in bounded chunks. Existing contacts
// are never replaced wholesale: club-sourced sub-fields are merged into the
// fetched contact by their tagged type, leaving entries the member added
// themselves untouched, and the update is submitted under a field mask
// covering only the merged categories.
//
// Contacts that are no longer current members are reported but never
// removed, since the group may intentionally hold people outside the
// roster.
package contacts
