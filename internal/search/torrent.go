package search

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/anacrolix/torrent/metainfo"
)

// TorrentFile is one file of a torrent, named the way qBittorrent reports
// it relative to the save path.
type TorrentFile struct {
	Name   string `json:"name"`
	Length int64  `json:"length"`
}

// TorrentMeta is the metadata read from a .torrent payload.
type TorrentMeta struct {
	Name         string        `json:"name"`
	InfoHash     string        `json:"info_hash"`
	TotalSize    int64         `json:"total_size"`
	CreationDate time.Time     `json:"creation_date"`
	Files        []TorrentFile `json:"files"`
}

// FileNames returns the names of all files in torrent order.
func (m TorrentMeta) FileNames() []string {
	names := make([]string, 0, len(m.Files))
	for _, f := range m.Files {
		names = append(names, f.Name)
	}
	return names
}

// ParseTorrent reads the metadata of a bencoded .torrent payload.
func ParseTorrent(data []byte) (*TorrentMeta, error) {
	mi, err := metainfo.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTorrent, err)
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("%w: unmarshal info: %v", ErrInvalidTorrent, err)
	}
	if info.Name == "" {
		return nil, fmt.Errorf("%w: torrent has no name", ErrInvalidTorrent)
	}

	meta := &TorrentMeta{
		Name:      info.Name,
		InfoHash:  mi.HashInfoBytes().HexString(),
		TotalSize: info.TotalLength(),
	}
	if mi.CreationDate > 0 {
		meta.CreationDate = time.Unix(mi.CreationDate, 0).UTC()
	}

	if len(info.Files) == 0 {
		meta.Files = []TorrentFile{{Name: info.Name, Length: info.Length}}
		return meta, nil
	}
	for _, f := range info.Files {
		name := info.Name
		if p := f.DisplayPath(&info); p != "" {
			name = strings.Join([]string{info.Name, p}, "/")
		}
		meta.Files = append(meta.Files, TorrentFile{Name: name, Length: f.Length})
	}
	return meta, nil
}
