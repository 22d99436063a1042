package lsp

import (
	"encoding/json"
	"fmt"

	"todohl/internal/render"
)

// Workspace commands understood by workspace/executeCommand.
const (
	CommandRefresh = "todohl.refresh"
	CommandList    = "todohl.list"
	CommandGoto    = "todohl.goto"
)

// Commands is advertised in the initialize result.
var Commands = []string{CommandRefresh, CommandList, CommandGoto}

func (s *Server) handleHover(msg *rpcMessage) error {
	var params hoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	snap, ok := s.currentSnapshot(canonicalURI(params.TextDocument.URI))
	if !ok {
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendResponse(msg.ID, buildHover(snap, params.Position))
}

func buildHover(snap *snapshot, pos position) *hover {
	for _, e := range snap.result.Ordered {
		if e.Line != pos.Line {
			continue
		}
		r := lineRange(snap.file, e.Line)
		return &hover{
			Contents: markupContent{Kind: "plaintext", Value: e.Hover()},
			Range:    &r,
		}
	}
	return nil
}

func (s *Server) handleDocumentSymbol(msg *rpcMessage) error {
	var params documentSymbolParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	snap, ok := s.currentSnapshot(canonicalURI(params.TextDocument.URI))
	if !ok {
		return s.sendResponse(msg.ID, []documentSymbol{})
	}
	return s.sendResponse(msg.ID, buildSymbols(snap))
}

// buildSymbols lists the annotations in global order, the same order as the
// todohl.list command.
func buildSymbols(snap *snapshot) []documentSymbol {
	items := render.List(snap.result)
	out := make([]documentSymbol, 0, len(items))
	for _, item := range items {
		jump := render.JumpTo(item)
		at := position{Line: jump.Line, Character: jump.Character}
		out = append(out, documentSymbol{
			Name:           item.Label,
			Detail:         item.Bucket.String(),
			Kind:           symbolKindEvent,
			Range:          lineRange(snap.file, item.Line),
			SelectionRange: lspRange{Start: at, End: at},
		})
	}
	return out
}

func toListItems(items []render.ListItem) []listItem {
	out := make([]listItem, 0, len(items))
	for _, item := range items {
		out = append(out, listItem{
			Label:    item.Label,
			Line:     item.Line,
			Priority: item.Priority,
			Bucket:   item.Bucket.String(),
			Icon:     string(item.Icon),
		})
	}
	return out
}

func (s *Server) handleExecuteCommand(msg *rpcMessage) error {
	var params executeCommandParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	var target commandTarget
	if len(params.Arguments) > 0 {
		if err := json.Unmarshal(params.Arguments[0], &target); err != nil {
			return s.sendError(msg.ID, codeInvalidParams, "invalid command arguments")
		}
	}
	uri := canonicalURI(target.URI)
	switch params.Command {
	case CommandRefresh:
		if !s.refreshNow(uri) {
			return s.sendError(msg.ID, codeInvalidParams, fmt.Sprintf("document not open: %s", target.URI))
		}
		return s.sendResponse(msg.ID, nil)
	case CommandList:
		snap, ok := s.currentSnapshot(uri)
		if !ok {
			return s.sendError(msg.ID, codeInvalidParams, fmt.Sprintf("document not open: %s", target.URI))
		}
		return s.sendResponse(msg.ID, toListItems(render.List(snap.result)))
	case CommandGoto:
		return s.executeGoto(msg, uri, target)
	}
	return s.sendError(msg.ID, codeInvalidParams, fmt.Sprintf("unknown command %q", params.Command))
}

// executeGoto asks the client to reveal the annotation on target.Line and put
// the cursor at the start of that line.
func (s *Server) executeGoto(msg *rpcMessage, uri string, target commandTarget) error {
	if target.Line == nil {
		return s.sendError(msg.ID, codeInvalidParams, "missing line")
	}
	snap, ok := s.currentSnapshot(uri)
	if !ok {
		return s.sendError(msg.ID, codeInvalidParams, fmt.Sprintf("document not open: %s", target.URI))
	}
	for _, item := range render.List(snap.result) {
		if item.Line != *target.Line {
			continue
		}
		jump := render.JumpTo(item)
		at := position{Line: jump.Line, Character: jump.Character}
		params := showDocumentParams{
			URI:       uri,
			TakeFocus: true,
			Selection: &lspRange{Start: at, End: at},
		}
		if err := s.sendRequest("window/showDocument", params); err != nil {
			return err
		}
		return s.sendResponse(msg.ID, nil)
	}
	return s.sendError(msg.ID, codeInvalidParams, fmt.Sprintf("no annotation on line %d", *target.Line))
}
