package filemanager

import (
	"fmt"
	"sort"

	"spisovka/internal/domain"
	models "spisovka/internal/domain/models/filemanager"
)

// index is a read-only id/children view over one snapshot of the flat list.
// It is rebuilt per operation; lists are small and fully in memory.
type index struct {
	items    []models.FileItem
	byID     map[string]int
	children map[string][]int
}

func newIndex(items []models.FileItem) *index {
	idx := &index{
		items:    items,
		byID:     make(map[string]int, len(items)),
		children: make(map[string][]int),
	}
	for i := range items {
		idx.byID[items[i].ID] = i
		idx.children[items[i].ParentID] = append(idx.children[items[i].ParentID], i)
	}
	return idx
}

func (x *index) get(id string) (*models.FileItem, bool) {
	i, ok := x.byID[id]
	if !ok {
		return nil, false
	}
	return &x.items[i], true
}

func (x *index) folder(id string) (*models.FileItem, bool) {
	item, ok := x.get(id)
	if !ok || !item.IsFolder() {
		return nil, false
	}
	return item, true
}

// ancestors walks parent references from id (exclusive) toward root and
// calls visit for each ancestor. The walk is bounded by the list length and
// stops on a revisited id, so a corrupted cyclic list cannot hang it.
func (x *index) ancestors(id string, visit func(*models.FileItem) bool) {
	item, ok := x.get(id)
	if !ok {
		return
	}
	seen := map[string]bool{id: true}
	parentID := item.ParentID
	for steps := 0; parentID != models.RootFolderID && steps < len(x.items); steps++ {
		if seen[parentID] {
			return
		}
		seen[parentID] = true
		parent, ok := x.get(parentID)
		if !ok {
			return
		}
		if !visit(parent) {
			return
		}
		parentID = parent.ParentID
	}
}

// cyclic reports whether the parent chain starting at id revisits an item.
// Dangling references end the chain and are not cycles.
func (x *index) cyclic(id string) bool {
	seen := make(map[string]bool)
	current := id
	for {
		item, ok := x.get(current)
		if !ok || item.IsRoot() {
			return false
		}
		if seen[current] {
			return true
		}
		seen[current] = true
		current = item.ParentID
	}
}

// CurrentFolder returns the folder selected by currentID, or nil for root
// (including when currentID does not name an existing folder).
func CurrentFolder(items []models.FileItem, currentID string) *models.FileItem {
	if currentID == models.RootFolderID {
		return nil
	}
	folder, ok := newIndex(items).folder(currentID)
	if !ok {
		return nil
	}
	out := *folder
	return &out
}

// FolderContents returns the direct children of folderID: folders before
// files, each group newest first. Equal timestamps keep list order.
func FolderContents(items []models.FileItem, folderID string) []models.FileItem {
	contents := make([]models.FileItem, 0)
	for _, item := range items {
		if item.ParentID == folderID {
			contents = append(contents, item)
		}
	}
	sort.SliceStable(contents, func(i, j int) bool {
		a, b := contents[i], contents[j]
		if a.IsFolder() != b.IsFolder() {
			return a.IsFolder()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return contents
}

// FolderChain returns the path root → ... → id (inclusive). Its length is
// the depth of id; root itself yields an empty chain.
func FolderChain(items []models.FileItem, id string) []models.FileItem {
	if id == models.RootFolderID {
		return []models.FileItem{}
	}
	idx := newIndex(items)
	item, ok := idx.get(id)
	if !ok {
		return []models.FileItem{}
	}

	reversed := []models.FileItem{*item}
	idx.ancestors(id, func(parent *models.FileItem) bool {
		reversed = append(reversed, *parent)
		return true
	})

	chain := make([]models.FileItem, len(reversed))
	for i, item := range reversed {
		chain[len(reversed)-1-i] = item
	}
	return chain
}

// Descendants returns the ids of every item whose parent chain leads to id,
// in breadth-first order. id itself is not included.
func Descendants(items []models.FileItem, id string) []string {
	idx := newIndex(items)
	seen := map[string]bool{id: true}
	var out []string

	queue := []string{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, child := range idx.children[current] {
			childID := idx.items[child].ID
			if seen[childID] {
				continue
			}
			seen[childID] = true
			out = append(out, childID)
			queue = append(queue, childID)
		}
	}
	return out
}

// IsDescendant reports whether candidate lies below ancestorID.
func IsDescendant(items []models.FileItem, ancestorID, candidate string) bool {
	return isDescendant(newIndex(items), ancestorID, candidate)
}

func isDescendant(idx *index, ancestorID, candidate string) bool {
	found := false
	idx.ancestors(candidate, func(parent *models.FileItem) bool {
		if parent.ID == ancestorID {
			found = true
			return false
		}
		return true
	})
	return found
}

// ValidateMove checks that itemID may be re-parented under targetID.
// Moving into the item itself or into one of its descendants would create
// a cycle and is rejected with a *domain.MoveRejectedError.
func ValidateMove(items []models.FileItem, itemID, targetID string) error {
	idx := newIndex(items)
	item, ok := idx.get(itemID)
	if !ok {
		return fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}
	if targetID == models.RootFolderID {
		return nil
	}

	reject := func(reason domain.MoveRejectReason) error {
		return &domain.MoveRejectedError{ItemID: itemID, TargetID: targetID, Reason: reason}
	}

	if targetID == item.ID {
		return reject(domain.MoveIntoSelf)
	}
	target, ok := idx.get(targetID)
	if !ok {
		return reject(domain.MoveTargetMissing)
	}
	if !target.IsFolder() {
		return reject(domain.MoveTargetNotDir)
	}
	if item.IsFolder() && isDescendant(idx, item.ID, targetID) {
		return reject(domain.MoveIntoDescendant)
	}
	return nil
}

// MoveTargets lists the folders itemID may be moved into, in list order.
// Root is always a valid target and is not included.
func MoveTargets(items []models.FileItem, itemID string) ([]models.FileItem, error) {
	idx := newIndex(items)
	item, ok := idx.get(itemID)
	if !ok {
		return nil, fmt.Errorf("item %s: %w", itemID, domain.ErrNotFound)
	}

	targets := make([]models.FileItem, 0)
	for _, candidate := range items {
		if !candidate.IsFolder() || candidate.ID == item.ID {
			continue
		}
		if item.IsFolder() && isDescendant(idx, item.ID, candidate.ID) {
			continue
		}
		targets = append(targets, candidate)
	}
	return targets, nil
}
