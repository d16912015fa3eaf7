// Package marktree provides a format-agnostic tree value, the Node, and the
// codec contract that converts it to and from serialized formats.
//
// - A Node is Null, a scalar (bool, int, uint, float, string), a List or a Map.
// - Maps keep member order; keys are unique and non-empty.
// - Every failure is an *Error carrying a code and, where known, a JSON Pointer.
//
// Design policy:
// - Keep the value model and the codec contract in the root package.
// - Place formats under codec/ (json, yaml, bson) and token drivers under source/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	root := marktree.New()
//	name, _ := root.Ensure("name")
//	name.SetString("demo")
//	tags, _ := root.Ensure("tags")
//	_ = tags.PushBack(marktree.NewString("a"))
//
//	c := json.New(marktree.WithIndent(4))
//	text, err := c.Dump(root)
//	back, err := c.Read(text)
package marktree
