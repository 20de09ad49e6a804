// Package googletasks is a remote.Service backed by the Google Tasks API.
//
// Categories are task lists and a task lives in the list of its category.
// Tasks without a category go to the account's default list, which is also
// listed as a category. Task IDs combine both parts as "<list id>:<task id>".
//
// Google Tasks keeps a title, notes, a status and a due date. The fields it
// has no place for (the exact due time, the priority and the owner) are kept
// in a final notes line:
//
//	uptodo: owner=a%40x.io&priority=3&time=2024-05-01T09%3A00%3A00Z
//
// Tasks created in other Google Tasks clients carry no such line. They are
// attributed to Config.Owner and their due date is read as midnight UTC.
//
// Limitations:
//   - A task cannot change category, since moving it to another list would
//     change its ID. UpdateTask rejects such patches.
//   - Lists have no color or icon. A category's color is picked from
//     model.DefaultCategoryColors by its list ID and the icon is not kept.
package googletasks
