package structure

import (
	"strings"

	"repocopilot/internal/githubapi"
)

// TreeNode is one entry of the nested directory tree built from the flat
// listing. Directories carry children in insertion order; files are leaves
// with kind and size.
type TreeNode struct {
	Name     string
	Path     string
	Kind     string
	Size     int64
	Children []*TreeNode
}

// IsDir reports whether the node groups other entries.
func (n *TreeNode) IsDir() bool { return n.Kind == githubapi.KindDir }

func (n *TreeNode) child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// BuildTree folds the flat path list into a nested tree. Intermediate path
// segments become directory nodes even when the listing has no explicit
// entry for them.
func BuildTree(files []githubapi.RemoteFile) *TreeNode {
	root := &TreeNode{Kind: githubapi.KindDir}

	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		cur := root
		for i, part := range parts {
			leaf := i == len(parts)-1
			next := cur.child(part)
			if next == nil {
				next = &TreeNode{
					Name: part,
					Path: strings.Join(parts[:i+1], "/"),
					Kind: githubapi.KindDir,
				}
				cur.Children = append(cur.Children, next)
			}
			if leaf {
				next.Kind = f.Kind
				next.Size = f.Size
			}
			cur = next
		}
	}
	return root
}
