package fetcher

import (
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// The census bureau mirrors every www2.census.gov path on its anonymous
// FTP host with an identical directory layout.
const (
	censusHTTPHost   = "www2.census.gov"
	censusMirrorHost = "ftp2.census.gov"

	anonymousUser = "anonymous"
	anonymousPass = "anonymous@"
)

// MirrorURL translates a www2.census.gov HTTP(S) URL into its
// ftp2.census.gov equivalent. URLs on any other host have no mirror.
func MirrorURL(httpURL string) (string, error) {
	u, err := url.Parse(httpURL)
	if err != nil {
		return "", eris.Wrap(err, "ftp: parse mirror source url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", eris.Errorf("ftp: expected http(s) scheme, got %q", u.Scheme)
	}
	if u.Host != censusHTTPHost {
		return "", eris.Errorf("ftp: no mirror for host %q", u.Host)
	}
	return "ftp://" + censusMirrorHost + u.Path, nil
}

// FTPOptions configures the FTP fetcher.
type FTPOptions struct {
	Timeout time.Duration
}

// FTPFetcher retrieves files over anonymous FTP. Each download dials its own
// connection, released when the returned reader is closed.
type FTPFetcher struct {
	opts FTPOptions
}

// NewFTPFetcher creates a new FTPFetcher with the given options.
func NewFTPFetcher(opts FTPOptions) *FTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &FTPFetcher{opts: opts}
}

// ftpBody streams the retrieved file; Close releases the data connection
// and then the control connection.
type ftpBody struct {
	io.Reader
	close func() error
}

func (b *ftpBody) Close() error { return b.close() }

// Download retrieves the file behind an ftp:// URL. The caller must close
// the returned reader to release the connection.
func (f *FTPFetcher) Download(ctx context.Context, ftpURL string) (io.ReadCloser, error) {
	u, err := url.Parse(ftpURL)
	if err != nil {
		return nil, eris.Wrap(err, "ftp: parse url")
	}
	if u.Scheme != "ftp" || u.Path == "" {
		return nil, eris.Errorf("ftp: not a retrievable ftp url: %s", ftpURL)
	}

	addr := u.Host
	if _, _, splitErr := net.SplitHostPort(addr); splitErr != nil {
		addr = net.JoinHostPort(addr, "21")
	}

	zap.L().Debug("ftp: retrieving",
		zap.String("component", "fetcher.ftp"),
		zap.String("addr", addr),
		zap.String("path", u.Path),
	)

	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(f.opts.Timeout), ftp.DialWithContext(ctx))
	if err != nil {
		return nil, eris.Wrapf(err, "ftp: dial %s", addr)
	}
	if err := conn.Login(anonymousUser, anonymousPass); err != nil {
		_ = conn.Quit()
		return nil, eris.Wrap(err, "ftp: anonymous login")
	}
	resp, err := conn.Retr(u.Path)
	if err != nil {
		_ = conn.Quit()
		return nil, eris.Wrapf(err, "ftp: retrieve %s", u.Path)
	}

	return &ftpBody{Reader: resp, close: func() error {
		respErr := resp.Close()
		quitErr := conn.Quit()
		if respErr != nil {
			return eris.Wrap(respErr, "ftp: close data connection")
		}
		if quitErr != nil {
			return eris.Wrap(quitErr, "ftp: quit")
		}
		return nil
	}}, nil
}

// DownloadToFile retrieves the FTP URL into a local file. Returns bytes written.
func (f *FTPFetcher) DownloadToFile(ctx context.Context, ftpURL string, path string) (int64, error) {
	body, err := f.Download(ctx, ftpURL)
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	out, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "ftp: create file")
	}
	defer out.Close() //nolint:errcheck

	n, err := io.Copy(out, body)
	if err != nil {
		return n, eris.Wrap(err, "ftp: write file")
	}
	return n, nil
}
