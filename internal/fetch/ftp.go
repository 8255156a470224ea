// Package fetch retrieves a cycle's diagnostic files from an FTP archive
// into the local data path, so an analysis can run against archived cycles
// without a manual download step.
package fetch

import (
	"fmt"
	"io"
	"log"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jlaffaye/ftp"
)

const dialTimeout = 30 * time.Second

type Client struct {
	Host      string // host:port
	User      string
	Password  string
	RemoteDir string
}

func NewClient(host, user, password, remoteDir string) *Client {
	if user == "" {
		user = "anonymous"
	}
	if password == "" {
		password = "anonymous"
	}
	return &Client{Host: host, User: user, Password: password, RemoteDir: remoteDir}
}

// FetchCycle downloads the ges and anl diagnostic files for every sensor of
// one cycle into {dataPath}/{hh}/. Files absent on the server are logged and
// skipped; transient transfer failures are retried with backoff.
func (c *Client) FetchCycle(hh, cycle string, sensors []string, dataPath string) error {
	localDir := filepath.Join(dataPath, hh)
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", localDir, err)
	}

	conn, err := ftp.Dial(c.Host, ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login(c.User, c.Password); err != nil {
		return fmt.Errorf("ftp login: %w", err)
	}

	fetched := 0
	for _, sensor := range sensors {
		for _, kind := range []string{"ges", "anl"} {
			name := fmt.Sprintf("diag_%s_%s.%s.nc4", sensor, kind, cycle)
			remote := c.RemoteDir + "/" + name
			local := filepath.Join(localDir, name)
			if _, err := os.Stat(local); err == nil {
				continue
			}
			if err := c.retrieve(conn, remote, local); err != nil {
				log.Printf("fetch: %s unavailable: %v", remote, err)
				continue
			}
			fetched++
			log.Printf("fetch: saved %s", local)
		}
	}
	log.Printf("fetch: %d files retrieved for cycle %s", fetched, cycle)
	return nil
}

func (c *Client) retrieve(conn *ftp.ServerConn, remote, local string) error {
	operation := func() error {
		resp, err := conn.Retr(remote)
		if err != nil {
			// 550-class replies mean the file does not exist on the
			// server; retrying will not help.
			if pe, ok := err.(*textproto.Error); ok && pe.Code >= 500 {
				return backoff.Permanent(fmt.Errorf("retr: %w", err))
			}
			return fmt.Errorf("retr: %w", err)
		}
		defer resp.Close()

		tmp := local + ".part"
		f, err := os.Create(tmp)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create %s: %w", tmp, err))
		}
		if _, err := io.Copy(f, resp); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("copy %s: %w", remote, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("close %s: %w", tmp, err)
		}
		return os.Rename(tmp, local)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	return backoff.Retry(operation, bo)
}
