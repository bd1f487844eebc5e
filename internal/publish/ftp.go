// Package publish uploads exported catalog files to a remote FTP drop.
package publish

import (
	"context"
	"net"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options configures the FTP publisher.
type Options struct {
	Host      string // host or host:port; port defaults to 21
	User      string
	Password  string
	RemoteDir string
	Timeout   time.Duration
}

// Publisher uploads files to an FTP server.
type Publisher struct {
	opts Options
}

// New creates a Publisher with the given options.
func New(opts Options) (*Publisher, error) {
	if opts.Host == "" {
		return nil, eris.New("publish: host is required")
	}
	if opts.User == "" {
		opts.User = "anonymous"
		opts.Password = "anonymous@"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if _, _, err := net.SplitHostPort(opts.Host); err != nil {
		opts.Host = net.JoinHostPort(opts.Host, "21")
	}
	return &Publisher{opts: opts}, nil
}

// Upload stores the local file on the server under RemoteDir, keeping the
// local base name. Returns the remote path.
func (p *Publisher) Upload(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return "", eris.Wrapf(err, "publish: open %s", localPath)
	}
	defer file.Close()

	remotePath := path.Join(p.opts.RemoteDir, filepath.Base(localPath))

	zap.L().Debug("publish: connecting",
		zap.String("host", p.opts.Host),
		zap.String("remote_path", remotePath))

	conn, err := ftp.Dial(p.opts.Host, ftp.DialWithTimeout(p.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return "", eris.Wrap(err, "publish: ftp dial")
	}
	defer conn.Quit() //nolint:errcheck

	if err := conn.Login(p.opts.User, p.opts.Password); err != nil {
		return "", eris.Wrap(err, "publish: ftp login")
	}

	if p.opts.RemoteDir != "" {
		// MakeDir fails when the directory exists; Stor below surfaces
		// anything that actually matters.
		_ = conn.MakeDir(p.opts.RemoteDir)
	}

	if err := conn.Stor(remotePath, file); err != nil {
		return "", eris.Wrapf(err, "publish: ftp store %s", remotePath)
	}

	zap.L().Info("publish: uploaded",
		zap.String("local", localPath),
		zap.String("remote", remotePath))
	return remotePath, nil
}
