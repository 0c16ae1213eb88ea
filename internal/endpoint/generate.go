package endpoint

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

var errNoAddress = errors.New("no server address given: use --servername or set NVIM_LISTEN_ADDRESS")

// Generate returns a fresh socket endpoint inside dir. An empty dir means the
// system temporary directory.
func Generate(dir string) Endpoint {
	if dir == "" {
		dir = os.TempDir()
	}
	return Endpoint{
		Address: filepath.Join(dir, "nvr-"+uuid.NewString()+".sock"),
		Kind:    KindUnix,
	}
}
