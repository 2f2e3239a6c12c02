package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/gliderlabs/ssh"
	"github.com/josephlewis42/vterm/core/config"
	"github.com/josephlewis42/vterm/core/logger"
	"github.com/josephlewis42/vterm/core/recording"
	"github.com/josephlewis42/vterm/core/vfs"
)

// Server hosts one terminal session per SSH connection over a shared
// filesystem.
type Server struct {
	configuration *config.Configuration
	storage       vfs.FS
	logger        *logger.Logger
	sshServer     *ssh.Server
}

// NewServer creates a server, events are written to logDest.
func NewServer(configuration *config.Configuration, logDest io.Writer) (*Server, error) {
	storage, err := NewStorageFromConfig(configuration)
	if err != nil {
		return nil, err
	}

	server := &Server{
		configuration: configuration,
		storage:       storage,
		logger:        logger.NewJsonLinesLogRecorder(logDest),
	}

	server.sshServer = &ssh.Server{
		Addr: fmt.Sprintf(":%d", configuration.SSHPort),
		Handler: func(s ssh.Session) {
			if err := server.HandleConnection(s); err != nil {
				log.Printf("session for %q ended: %v", s.User(), err)
			}
		},
		PasswordHandler: server.checkPassword,
	}

	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("reading host key: %w", err)
	}
	if err := server.sshServer.SetOption(ssh.HostKeyPEM(keyPem)); err != nil {
		return nil, fmt.Errorf("loading host key: %w", err)
	}

	return server, nil
}

func (s *Server) checkPassword(ctx ssh.Context, password string) bool {
	ok := s.configuration.AllowAnyPassword
	for _, candidate := range s.configuration.GetPasswords(ctx.User()) {
		if subtle.ConstantTimeCompare([]byte(password), []byte(candidate)) == 1 {
			ok = true
		}
	}

	// Successful logins are recorded by the session.
	if !ok {
		_ = s.logger.Sessionless().Record(&logger.Login{
			Username:   ctx.User(),
			RemoteAddr: ctx.RemoteAddr().String(),
		})
	}
	return ok
}

// HandleConnection runs a console for the connection until it closes.
func (s *Server) HandleConnection(conn ssh.Session) error {
	sessionLogger := s.logger.NewSession()

	// Log the login
	_ = sessionLogger.Record(&logger.Login{
		Username:   conn.User(),
		RemoteAddr: conn.RemoteAddr().String(),
		Succeeded:  true,
	})

	ptyInfo, winch, isPTY := conn.Pty()
	var width atomic.Int64
	width.Store(int64(ptyInfo.Window.Width))

	// Watch for window changes.
	go func() {
		for window := range winch {
			width.Store(int64(window.Width))
		}
	}()

	var (
		stdin  io.Reader = conn
		stdout io.Writer = conn
		stderr io.Writer = conn.Stderr()
	)
	if s.configuration.RecordSessions {
		rec, closeRecording, err := s.startRecording(sessionLogger.SessionID(), conn.User())
		if err != nil {
			log.Printf("not recording session %s: %v", sessionLogger.SessionID(), err)
		} else {
			defer closeRecording()
			stdin = rec.Reader(stdin)
			stdout = rec.Writer(stdout)
			stderr = rec.Writer(stderr)
		}
	}

	var console *Console
	sess := NewSession(s.configuration, s.storage, SessionConfig{
		Identity: vfs.Identity(conn.User()),
		Recorder: sessionLogger,
		OnClear: func() {
			console.Clear()
		},
	})

	console, err := NewConsole(sess, ConsoleConfig{
		Stdin:      stdin,
		Stdout:     stdout,
		Stderr:     stderr,
		Width:      func() int { return int(width.Load()) },
		IsTerminal: func() bool { return isPTY },
		Hostname:   s.configuration.Hostname,
		Prompt:     s.configuration.Shell.Prompt,
	})
	if err != nil {
		conn.Exit(1)
		return err
	}

	if banner := s.configuration.SSHBanner; banner != "" {
		fmt.Fprintln(stdout, banner)
	}

	if err := console.Run(conn.Context()); err != nil {
		conn.Exit(1)
		return err
	}

	return conn.Exit(0)
}

// startRecording opens an asciicast recording for the session.
func (s *Server) startRecording(sessionID, user string) (*recording.Recorder, func(), error) {
	f, err := s.configuration.CreateRecording(sessionID)
	if err != nil {
		return nil, nil, err
	}

	title := fmt.Sprintf("%s@%s", user, s.configuration.Hostname)
	rec := recording.NewRecorder(recording.NewAsciicastSink(f, title), nil)
	return rec, func() {
		if err := rec.Err(); err != nil {
			log.Printf("recording session %s: %v", sessionID, err)
		}
		f.Close()
	}, nil
}

func (s *Server) ListenAndServe() error {
	log.Printf("- Starting SSH server on %s\n", s.sshServer.Addr)
	return s.sshServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
