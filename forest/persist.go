package forest

import (
	"encoding/gob"
	"os"
)

// Save encodes f to path with encoding/gob, the same mechanism
// tree.Classifier.Save/forest.Classifier.Save and model.go's Model.Save use
// in the teacher. Persistence format is otherwise unspecified by spec.md;
// gob is the teacher's own choice and round-trips *tree.Node/*Forest with
// no custom marshaling code.
func Save(path string, f *Forest) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return gob.NewEncoder(out).Encode(f)
}

// Restore decodes a Forest previously written by Save.
func Restore(path string) (*Forest, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	f := new(Forest)
	if err := gob.NewDecoder(in).Decode(f); err != nil {
		return nil, err
	}
	return f, nil
}

// DropOOB returns a copy of f with every tree's OOB index list cleared, so
// persistence doesn't carry training-time-only bookkeeping. Per spec.md
// §6's persistence invariant: restore(save(f)) == DropOOB(f).
func DropOOB(f *Forest) *Forest {
	return &Forest{
		Trees:      f.Trees,
		OOBIndices: make([][]int, len(f.Trees)),
		NClasses:   f.NClasses,
	}
}
