package zimjson

import "strings"

// NamespaceMain is the namespace of root-level paths.
const NamespaceMain = "main"

// Semantic type tags assigned to entries.
const (
	TypePage       = "page"
	TypeArticle    = "article"
	TypeImage      = "image"
	TypeCategory   = "category"
	TypeDiscussion = "discussion"
	TypeFile       = "file"
	TypeTemplate   = "template"
	TypeHelp       = "help"
	TypePortal     = "portal"
	TypeBook       = "book"
	TypeMediaWiki  = "mediawiki"
	TypeDocument   = "document"
	TypeAudio      = "audio"
	TypeVideo      = "video"
	TypeArchive    = "archive"
	TypeUnknown    = "unknown"
)

var namespaceTypes = map[string]string{
	NamespaceMain: TypePage,
	"A":           TypeArticle,
	"I":           TypeImage,
	"Category":    TypeCategory,
	"Discussion":  TypeDiscussion,
	"File":        TypeFile,
	"Template":    TypeTemplate,
	"Help":        TypeHelp,
	"Portal":      TypePortal,
	"Book":        TypeBook,
	"MediaWiki":   TypeMediaWiki,
}

// Types of File namespace entries, keyed by lowercased extension.
var extensionTypes = map[string]string{
	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage, "svg": TypeImage, "webp": TypeImage,
	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument, "txt": TypeDocument, "rtf": TypeDocument,
	"mp3": TypeAudio, "wav": TypeAudio, "ogg": TypeAudio, "flac": TypeAudio, "aac": TypeAudio,
	"mp4": TypeVideo, "avi": TypeVideo, "mov": TypeVideo, "wmv": TypeVideo, "flv": TypeVideo,
	"zip": TypeArchive, "rar": TypeArchive, "7z": TypeArchive, "tar": TypeArchive, "gz": TypeArchive,
}

// Classification is the namespace and semantic type derived from a path.
type Classification struct {
	Type      string
	Namespace string
}

// DeduceNamespace returns the namespace of an entry path: the segment before
// the first slash, or NamespaceMain when that segment is empty or "-", or
// when the path has no slash at all.
func DeduceNamespace(path string) string {
	if strings.HasPrefix(path, "-/") || strings.HasPrefix(path, "/") {
		return NamespaceMain
	}
	prefix, _, found := strings.Cut(path, "/")
	if !found || prefix == "" || prefix == "-" {
		return NamespaceMain
	}
	return prefix
}

// Classify maps an entry path to its namespace and semantic type.
// Unknown namespaces yield TypeUnknown. Entries in the File namespace are
// typed by extension, falling back to TypeFile.
func Classify(path string) Classification {
	namespace := DeduceNamespace(path)

	typ, ok := namespaceTypes[namespace]
	if !ok {
		typ = TypeUnknown
	}

	if namespace == "File" {
		ext := path[strings.LastIndex(path, ".")+1:]
		if t, ok := extensionTypes[strings.ToLower(ext)]; ok {
			typ = t
		}
	}

	return Classification{Type: typ, Namespace: namespace}
}
