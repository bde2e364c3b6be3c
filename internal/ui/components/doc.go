// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the render-only building blocks of the chat screen.

Components hold no session state of their own. The chat model copies what it
needs out of the session on every View and hands it to a component, so the
screen always reflects the store.

# Display Components

Header (header.go) - Title bar with current program, model and busy state.
Sidebar (sidebar.go) - New chat button, program search and list, settings.
SettingsPanel (settings.go) - Temperature and max token sliders, model name.
MessageView (message.go) - One chat message, markdown rendered for replies.
QuickActions (quickactions.go) - Prefill buttons shown on an empty chat.
Notice (notice.go) - One-line transient banner for errors and confirmations.

# Rendering Helpers

Markdown (markdown.go) - glamour renderer cached per width.
Highlight and RenderCodeBlocks (codeblock.go) - chroma syntax highlighting.
*/
package components
