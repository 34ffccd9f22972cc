package files

import (
	"os"
	"path/filepath"
)

// FileInfo is one stored document in the uploads tree.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FolderInfo is one per-application directory in the uploads tree.
type FolderInfo struct {
	Name      string     `json:"name"`
	Files     []FileInfo `json:"files"`
	FileCount int        `json:"file_count"`
	Size      int64      `json:"size"`
}

// Structure is a read-only snapshot of the uploads directory, backing the
// admin introspection view.
type Structure struct {
	TotalFolders int          `json:"total_folders"`
	TotalFiles   int          `json:"total_files"`
	Folders      []FolderInfo `json:"folders"`
	UploadPath   string       `json:"upload_path"`
	PathExists   bool         `json:"path_exists"`
}

// Structure walks the uploads directory one level deep and reports its
// layout. Unreadable entries are skipped rather than failing the view.
func (r *Repository) Structure() *Structure {
	s := &Structure{
		Folders:    []FolderInfo{},
		UploadPath: r.root,
	}

	entries, err := os.ReadDir(r.root)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warn("failed to read upload directory", map[string]interface{}{"error": err})
		}
		return s
	}
	s.PathExists = true

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		folder := FolderInfo{Name: entry.Name(), Files: []FileInfo{}}
		folderPath := filepath.Join(r.root, entry.Name())

		files, err := os.ReadDir(folderPath)
		if err != nil {
			r.logger.Warn("failed to read application directory", map[string]interface{}{
				"error": err,
				"dir":   folderPath,
			})
			continue
		}

		for _, file := range files {
			if file.IsDir() {
				continue
			}
			info, err := file.Info()
			if err != nil {
				continue
			}
			folder.Files = append(folder.Files, FileInfo{Name: file.Name(), Size: info.Size()})
			folder.FileCount++
			folder.Size += info.Size()
			s.TotalFiles++
		}

		s.Folders = append(s.Folders, folder)
		s.TotalFolders++
	}

	return s
}
