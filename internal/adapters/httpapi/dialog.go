package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	apperrors "renextract/internal/pkg/errors"
	"renextract/internal/ports"
)

// Manual entry failures, shown as is.
const (
	MsgNoPath      = "Aucun chemin saisi"
	MsgInvalidPath = "Chemin invalide"
)

type dialogAnswer struct {
	Path string `json:"path"`
}

// OpenDialog opens a native file or folder picker on the backend host.
// When the host has none (WSL), the path is asked from the prompter.
// An empty path with no error means the user cancelled.
func (c *Client) OpenDialog(ctx context.Context, req ports.DialogRequest) (string, error) {
	const path = "/file-dialog/open"
	r, err := c.roundTrip(ctx, http.MethodPost, path, req, c.dialogTimeout)
	if err != nil {
		return "", err
	}
	if r.isJSON && r.env.wsl() {
		return c.promptPath(ctx, openPrompt(req, r.env.SuggestedPath), req.Validate)
	}

	var out dialogAnswer
	if err := c.interpret(http.MethodPost, path, r, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

// SaveDialog opens a native save picker. In WSL mode the typed path is
// registered through /file-dialog/save-path.
func (c *Client) SaveDialog(ctx context.Context, req ports.DialogRequest) (string, error) {
	const path = "/file-dialog/save"
	req.DialogType = ports.DialogSave
	r, err := c.roundTrip(ctx, http.MethodPost, path, req, c.dialogTimeout)
	if err != nil {
		return "", err
	}

	var out dialogAnswer
	if r.isJSON && r.env.wsl() {
		typed, err := c.promptPath(ctx, savePrompt(req), req.Validate)
		if err != nil {
			return "", err
		}
		if err := c.post(ctx, "/file-dialog/save-path", map[string]any{"path": typed}, &out); err != nil {
			return "", err
		}
		if out.Path == "" {
			out.Path = typed
		}
		return out.Path, nil
	}

	if err := c.interpret(http.MethodPost, path, r, &out); err != nil {
		return "", err
	}
	return out.Path, nil
}

func (c *Client) promptPath(ctx context.Context, text string, validate func(string) bool) (string, error) {
	if c.prompter == nil {
		return "", apperrors.New(apperrors.CodeWSLMode, "no native dialog and no prompter configured")
	}
	typed, err := c.prompter.PromptPath(ctx, text)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeNoPath, MsgNoPath)
	}
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return "", apperrors.New(apperrors.CodeNoPath, MsgNoPath)
	}
	if validate != nil && !validate(typed) {
		return "", apperrors.New(apperrors.CodeInvalidPath, MsgInvalidPath)
	}
	return typed, nil
}

func fileTypesText(types []ports.FileType) string {
	if len(types) == 0 {
		return "Tous les fichiers (*.*)"
	}
	parts := make([]string, 0, len(types))
	for _, ft := range types {
		parts = append(parts, fmt.Sprintf("%s (%s)", ft[0], ft[1]))
	}
	return strings.Join(parts, " | ")
}

func openPrompt(req ports.DialogRequest, suggested string) string {
	folder := req.DialogType == ports.DialogFolder

	title := req.Title
	if title == "" {
		title = "Sélectionner un fichier"
		if folder {
			title = "Sélectionner un dossier"
		}
	}
	if suggested == "" {
		suggested = req.InitialDir
	}

	var b strings.Builder
	b.WriteString("Mode WSL détecté\n\n")
	fmt.Fprintf(&b, "Titre: %s\n", title)
	if folder {
		b.WriteString("Type: Dossier\n")
	} else {
		b.WriteString("Type: Fichier\n")
	}
	if req.DialogType == ports.DialogFile {
		fmt.Fprintf(&b, "Types acceptés: %s\n", fileTypesText(req.FileTypes))
	}
	if suggested != "" {
		fmt.Fprintf(&b, "Dossier suggéré: %s\n", suggested)
	}
	b.WriteString("\nSolutions recommandées:\n")
	b.WriteString("1. Installer zenity: sudo apt install zenity\n")
	b.WriteString("2. Ou saisir le chemin manuellement ci-dessous\n\n")
	if folder {
		b.WriteString("Veuillez saisir le chemin complet du dossier:\n")
		b.WriteString("Exemple: /mnt/c/Users/Public/Documents")
	} else {
		b.WriteString("Veuillez saisir le chemin complet du fichier:\n")
		b.WriteString("Exemple: /mnt/c/Users/Public/Documents/mon_fichier.rpy")
	}
	return b.String()
}

func savePrompt(req ports.DialogRequest) string {
	title := req.Title
	if title == "" {
		title = "Enregistrer sous..."
	}
	var b strings.Builder
	b.WriteString("En mode WSL, le dialogue de sauvegarde n'est pas disponible.\n\n")
	fmt.Fprintf(&b, "Titre: %s\n", title)
	fmt.Fprintf(&b, "Fichier initial: %s\n", req.InitialFile)
	fmt.Fprintf(&b, "Extension par défaut: %s\n", req.DefaultExtension)
	fmt.Fprintf(&b, "Types de fichiers: %s\n\n", fileTypesText(req.FileTypes))
	b.WriteString("Veuillez saisir le chemin complet du fichier de destination :\n")
	b.WriteString(`Exemple: C:\Users\Public\Documents\mon_fichier.rpy`)
	return b.String()
}
