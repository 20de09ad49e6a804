package google

// DefaultOAuthScopes are requested when a user authorizes uptodo.
//   - openid, userinfo.email: resolve the owner e-mail of the signed-in user
//   - datastore: read and write the Firestore task and category collections
//   - tasks: read and write task lists for the googletasks backend
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/datastore",
	"https://www.googleapis.com/auth/tasks",
}
